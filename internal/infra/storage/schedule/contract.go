package schedule

import "github.com/m04kA/SMC-BusinessBooking/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
