// Package experiment runs a declared set of independent tasks concurrently
// and reports the outcome of every one of them.
//
// An Experiment owns an execution ledger (the per-task state table), a FIFO
// dispatch queue and a bounded pool of worker goroutines. Callers never write
// goroutine or locking code themselves.
//
// # Basic Usage
//
//	report, err := experiment.Run(ctx, experiment.Config{
//	    Tasks: []experiment.Task{
//	        {ID: "a", Work: func(ctx context.Context) (any, error) { return 1, nil }},
//	        {ID: "b", Work: func(ctx context.Context) (any, error) { return 2, nil }},
//	    },
//	    MaxParallelism: 2,
//	})
//	if err != nil {
//	    // configuration error: nothing ran
//	}
//	for _, r := range report.Results() {
//	    fmt.Println(r.ID, r.Outcome.State)
//	}
//
// # Task States
//
// Every task moves Pending -> Running -> Succeeded|Failed, or Pending ->
// Cancelled when the experiment stops dispatching before the task starts.
// Terminal states are final. A failure inside a task, panics included, is
// recorded against that task and never stops other workers.
//
// # Fail-fast and Cancellation
//
// With FailFast set, the first failure halts dispatch: no pending task is
// claimed afterwards and the remaining ones end Cancelled. Cancelling the run
// context, calling Handle.Cancel or reaching Config.Timeout takes the same
// path. Cancellation is cooperative; tasks already running finish on their
// own and the report always holds one terminal entry per task.
//
// # Progress Reporting
//
// A Reporter is called once per terminal transition with the number of
// completed tasks, the total, the task id and its state:
//
//	cfg.Reporter = experiment.ReporterFunc(func(done, total int, id string, s experiment.State) {
//	    fmt.Printf("Completed %d/%d.\n", done, total)
//	})
//
// # Parameter Grids
//
// A Grid expands named parameters into their cartesian product, one task per
// configuration:
//
//	g := experiment.NewGrid().Add("trial", 1, 2, 3).Add("lr", 0.1, 0.01)
//	tasks := experiment.GridTasks(g, func(ctx context.Context, c experiment.Configuration) (any, error) {
//	    lr, _ := c.Get("lr")
//	    return train(lr), nil
//	})
//
// # Asynchronous Runs
//
// Start returns a Handle that can be polled (Report, Snapshot, Phase),
// awaited (Wait, WaitContext, Done) or cancelled.
package experiment
