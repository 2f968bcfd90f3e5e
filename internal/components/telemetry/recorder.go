package telemetry

import (
	"strings"
	"sync"
)

type ReportKind int

const (
	KindBroken ReportKind = iota
	KindWarning
	KindDebug
	KindCount
)

type Report struct {
	Kind   ReportKind
	ID     string
	Params []any
	Count  int64
}

// Recorder implements API by keeping every report in memory, tests use it
// to assert on the diagnostics a component emits.
type Recorder struct {
	mutex   sync.Mutex
	reports []Report
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add(Report{Kind: KindBroken, ID: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add(Report{Kind: KindWarning, ID: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add(Report{Kind: KindDebug, ID: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add(Report{Kind: KindCount, ID: id, Count: count})
}

// Reports returns a copy of every report of the given kind.
func (r *Recorder) Reports(kind ReportKind) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}

// Warnings returns the warnings whose id ends with the given suffix, the
// suffix form lets callers ignore the namespace added by ScopedAPI.
func (r *Recorder) Warnings(idSuffix string) []Report {
	var out []Report
	for _, report := range r.Reports(KindWarning) {
		if strings.HasSuffix(report.ID, idSuffix) {
			out = append(out, report)
		}
	}
	return out
}
