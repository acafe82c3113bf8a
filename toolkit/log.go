package toolkit

import (
	"log/slog"

	"github.com/StephaneRenouard/virtual-dataframe/internal/lifecycle"
)

// SetLogger replaces the package-level logger used by toolkit.
// The provided logger should already have any desired attributes; toolkit
// adds only per-operation attributes such as the release name.
//
// If l is nil, the logger resets to the default: slog.Default() with a
// "component" attribute, re-derived on the next use and then cached.
//
// SetLogger is safe to call concurrently with other toolkit operations.
// Controllers created before the call keep the logger they were created
// with.
func SetLogger(l *slog.Logger) {
	lifecycle.SetLogger(l)
}
