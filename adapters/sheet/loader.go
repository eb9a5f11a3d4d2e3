package sheet

import (
	"context"

	"kwbrowse/domain/core"
	"kwbrowse/domain/keywords"
	"kwbrowse/internal"
	"kwbrowse/ports"
)

// Loader implements ports.KeywordLoader: fetch, then clean. It holds no state
// between calls and never retries.
type Loader struct {
	config SheetConfig
	source ports.RawSource
	log    *internal.Logger
}

// NewLoader creates a loader that reads through a DataReader.
func NewLoader(config SheetConfig, log *internal.Logger) *Loader {
	if log == nil {
		log = internal.DefaultLogger
	}
	return NewLoaderWithSource(config, NewDataReader(config, log), log)
}

// NewLoaderWithSource creates a loader over any raw source.
func NewLoaderWithSource(config SheetConfig, source ports.RawSource, log *internal.Logger) *Loader {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Loader{config: config, source: source, log: log}
}

// LoadKeywords fetches source ("" = configured default) and cleans it.
func (l *Loader) LoadKeywords(ctx context.Context, source string) (*keywords.KeywordTable, error) {
	if source == "" {
		source = l.config.Source
	}
	if source == "" {
		return nil, core.NewDataUnavailableError("<none>", core.NewInvalidArgumentError("source", "is empty"))
	}

	raw, err := l.source.Fetch(ctx, source)
	if err != nil {
		l.log.Warn("[Loader] fetch failed for %s: %v", source, err)
		if core.IsDataUnavailable(err) {
			return nil, err
		}
		return nil, core.NewDataUnavailableError(source, err)
	}

	table, err := keywords.Clean(raw, l.config.Layout, l.config.DuplicatePolicy)
	if err != nil {
		l.log.Warn("[Loader] clean failed for %s: %v", source, err)
		if core.IsInvalidArgument(err) {
			return nil, err
		}
		return nil, core.NewDataUnavailableError(source, err)
	}

	l.log.Info("[Loader] loaded %d columns, %d keywords from %s", table.Len(), table.TotalKeywords(), source)
	return table, nil
}
