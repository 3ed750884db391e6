package main

import (
	"context"
	"errors"
	"os"

	mdpages "github.com/alnah/go-mdpages"
	"github.com/alnah/go-mdpages/internal/assets"
	"github.com/alnah/go-mdpages/internal/config"
	"github.com/alnah/go-mdpages/internal/hints"
)

// Exit codes follow Unix conventions: 0 success, 1 general, 2 usage, and
// custom codes below 126.
const (
	ExitSuccess = 0 // all outputs written
	ExitGeneral = 1 // unexpected or internal error
	ExitUsage   = 2 // invalid flags, config, input or graph
	ExitIO      = 3 // file not found, permission denied
	ExitBrowser = 4 // Chrome errors during PDF export
)

// exitCodeFor maps an error to an exit code. Callers must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, mdpages.ErrBrowserConnect) ||
		errors.Is(err, mdpages.ErrPageCreate) ||
		errors.Is(err, mdpages.ErrPageLoad) ||
		errors.Is(err, mdpages.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mdpages.ErrEmptySource) ||
		errors.Is(err, mdpages.ErrNoPages) ||
		errors.Is(err, mdpages.ErrUnknownStage) ||
		errors.Is(err, mdpages.ErrUnknownFormat) ||
		errors.Is(err, mdpages.ErrCorruptGraph) ||
		errors.Is(err, mdpages.ErrInvalidPageSize) ||
		errors.Is(err, mdpages.ErrInvalidOrientation) ||
		errors.Is(err, mdpages.ErrInvalidMargin) ||
		errors.Is(err, mdpages.ErrInvalidTOCDepth) ||
		errors.Is(err, mdpages.ErrStyleNotFound) ||
		errors.Is(err, mdpages.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns the actionable hint matching err, if any. Config lookup
// hints are attached where the config name is known.
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdpages.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, mdpages.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, mdpages.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.NewEmbeddedLoader().Styles())
	case errors.Is(err, mdpages.ErrUnknownStage):
		return hints.ForUnknownStage(stageNames())
	case errors.Is(err, mdpages.ErrCorruptGraph):
		return hints.ForCorruptGraph()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

func stageNames() []string {
	var names []string
	for st := mdpages.StageSource; st <= mdpages.StageRender; st++ {
		names = append(names, st.String())
	}
	return names
}
