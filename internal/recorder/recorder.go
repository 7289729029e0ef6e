package recorder

import "TrendSentry/internal/model"

// Recorder persists scan history for later analysis. It is write-only
// telemetry: nothing recorded here is ever read back into a scan cycle.
type Recorder interface {
	RecordScan(res *model.ScanResult) error
	Close() error
}
