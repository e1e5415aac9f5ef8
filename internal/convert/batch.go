// Copyright Climdyn Research, 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/climdyn/cfsnc/internal/cfsr"
)

// Task is one file conversion: a monthly GRIB2 input and its NetCDF output.
type Task struct {
	GribPath string
	NCPath   string
	Key      string
	Var      cfsr.VarDef
	Year     int
	Month    int
}

// TaskResult reports the outcome of one task.
type TaskResult struct {
	Task    Task
	Records int
	Skipped bool
	Err     error
}

// BatchResult aggregates a whole run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
	Results   []TaskResult
}

// Total returns the number of tasks attempted.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any task failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Plan expands a job into tasks, one per variable, year, and month. Months
// whose input file is missing are left out: the archive does not cover every
// variable over the whole period, and a hole should not fail the batch.
func Plan(job Job) ([]Task, error) {
	var tasks []Task
	for _, jv := range job.Variables {
		def, err := jv.Resolve()
		if err != nil {
			return nil, err
		}
		for year := job.InitialYear; year <= job.FinalYear; year++ {
			for _, month := range job.Months {
				in := filepath.Join(job.InputDir,
					cfsr.GribFileName(jv.Key, year, month, job.Resolution))
				if _, err := os.Stat(in); err != nil {
					continue
				}
				tasks = append(tasks, Task{
					GribPath: in,
					NCPath: filepath.Join(job.OutputDir,
						cfsr.NCFileName(def.NCName, year, month, job.Resolution)),
					Key:   jv.Key,
					Var:   def,
					Year:  year,
					Month: month,
				})
			}
		}
	}
	return tasks, nil
}

// Run converts the tasks on job.Workers goroutines. Each task is
// independent, so the pool shares nothing but the channels; results are
// tallied and reported on w as they arrive. Outputs that already exist are
// skipped so an interrupted batch can be rerun.
func Run(ctx context.Context, job Job, tasks []Task, w io.Writer) BatchResult {
	opts := job.Options()

	taskCh := make(chan Task)
	resCh := make(chan TaskResult)

	var wg sync.WaitGroup
	for i := 0; i < job.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskCh {
				resCh <- runTask(t, opts)
			}
		}()
	}

	go func() {
		defer close(taskCh)
		for _, t := range tasks {
			select {
			case taskCh <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resCh)
	}()

	var result BatchResult
	for res := range resCh {
		switch {
		case res.Skipped:
			result.Skipped++
			fmt.Fprintf(w, "skipped: %s (already exists)\n", res.Task.NCPath)
		case res.Err != nil:
			result.Failed++
			fmt.Fprintf(w, "failed: %s (%v)\n", res.Task.GribPath, res.Err)
		default:
			result.Converted++
			fmt.Fprintf(w, "converted: %s (%d timesteps)\n", res.Task.NCPath, res.Records)
		}
		result.Results = append(result.Results, res)
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

func runTask(t Task, opts Options) TaskResult {
	if _, err := os.Stat(t.NCPath); err == nil {
		return TaskResult{Task: t, Skipped: true}
	}
	n, err := ConvertMonthly(t.GribPath, t.NCPath, t.Var, opts)
	return TaskResult{Task: t, Records: n, Err: err}
}
