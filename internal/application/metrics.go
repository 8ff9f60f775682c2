package application

import "expvar"

// Exposed on /api/debug/vars.
var (
	planExecutions     = expvar.NewInt("plan_executions_total")
	executorRejections = expvar.NewMap("executor_rejections_total")
)
