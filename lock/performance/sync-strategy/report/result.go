package report

import (
	"time"

	syncstrategy "lock-bench/lock/performance/sync-strategy"
)

// Result 一次测量迭代的结果
type Result struct {
	Scenario  string        `json:"scenario" bson:"scenario"`
	Strategy  string        `json:"strategy" bson:"strategy"`
	Threads   int           `json:"threads" bson:"threads"`
	Iteration int           `json:"iteration" bson:"iteration"`
	Calls     int64         `json:"calls" bson:"calls"`
	Elapsed   time.Duration `json:"elapsed_ns" bson:"elapsed_ns"`
	NsPerOp   float64       `json:"ns_per_op" bson:"ns_per_op"`
	// Final 迭代结束时计数器的值，LostUpdates = Calls - Final
	Final       int64     `json:"final_value" bson:"final_value"`
	LostUpdates int64     `json:"lost_updates" bson:"lost_updates"`
	Time        time.Time `json:"time" bson:"time"`
}

func NewResult(sc syncstrategy.Scenario, iteration int, calls int64, elapsed time.Duration, final int64, at time.Time) Result {
	r := Result{
		Scenario:    sc.Name(),
		Strategy:    string(sc.Kind),
		Threads:     sc.Threads,
		Iteration:   iteration,
		Calls:       calls,
		Elapsed:     elapsed,
		Final:       final,
		LostUpdates: calls - final,
		Time:        at,
	}
	if calls > 0 {
		r.NsPerOp = float64(elapsed.Nanoseconds()) / float64(calls)
	}
	return r
}
