package batch

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/mreyesc22/MorQuestCode/model_problems/Estuary"
	"github.com/mreyesc22/MorQuestCode/results"
)

type Outcome struct {
	Index  int // position of the job in the batch
	Job    Job
	Record *results.Record
	Audit  results.AuditReport
	Err    error
}

// Runner evaluates jobs on a pool of workers. Runs share nothing; a
// cancelled context stops jobs that have not started yet.
type Runner struct {
	Workers int
	Logger  *slog.Logger
	// OnDone is called from a single goroutine as each job finishes.
	OnDone func(Outcome)
}

// Run returns one outcome per job in job order, and ctx.Err() when the batch
// was cancelled.
func (rn *Runner) Run(ctx context.Context, jobs []Job) (outcomes []Outcome, err error) {
	var (
		nwrkrs = rn.Workers
		log    = rn.Logger
		wg     sync.WaitGroup
	)
	if nwrkrs <= 0 {
		nwrkrs = runtime.NumCPU()
	}
	if nwrkrs > len(jobs) {
		nwrkrs = len(jobs)
	}
	if log == nil {
		log = slog.Default()
	}
	jin := make(chan int, len(jobs))
	rout := make(chan Outcome, nwrkrs)
	for i := range jobs {
		jin <- i
	}
	close(jin)

	wg.Add(nwrkrs)
	for w := 0; w < nwrkrs; w++ {
		go func() {
			defer wg.Done()
			for i := range jin {
				o := Outcome{Index: i, Job: jobs[i]}
				if o.Err = ctx.Err(); o.Err == nil {
					rn.evaluate(&o, log)
				}
				rout <- o
			}
		}()
	}
	go func() {
		wg.Wait()
		close(rout)
	}()

	outcomes = make([]Outcome, len(jobs))
	for o := range rout {
		outcomes[o.Index] = o
		if rn.OnDone != nil {
			rn.OnDone(o)
		}
	}
	err = ctx.Err()
	return
}

func (rn *Runner) evaluate(o *Outcome, log *slog.Logger) {
	log.Info("batch run start", "job", o.Job.Name)
	c, err := Estuary.NewEstuary(o.Job.Params)
	if err != nil {
		o.Err = err
		log.Warn("batch run rejected", "job", o.Job.Name, "error", err)
		return
	}
	c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	c.Run()
	o.Record = results.Package(c)
	if o.Audit, o.Err = results.Audit(o.Record); o.Err != nil {
		return
	}
	log.Info("batch run end", "job", o.Job.Name, "run", o.Record.RunID,
		"elapsed", c.Elapsed, "closedAt", c.ClosedAt, "audit", o.Audit.String())
}
