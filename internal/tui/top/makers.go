package top

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/leg100/hutch/internal/resource"
	"github.com/leg100/hutch/internal/tui/entity"
	"github.com/leg100/hutch/internal/tui/logs"
	"github.com/leg100/hutch/internal/tui/query"
	"github.com/leg100/hutch/internal/view"
)

// makeFactory makes the factory of views, one constructor per kind.
func makeFactory(opts Options, spinner *spinner.Model) (*view.Factory, error) {
	entityMaker := &entity.Maker{
		Client:  opts.Client,
		Logger:  opts.Logger,
		Spinner: spinner,
	}
	queryMaker := &query.Maker{
		Client: opts.Client,
		Logger: opts.Logger,
	}
	browserMaker := &query.BrowserMaker{
		Client: opts.Client,
		Logger: opts.Logger,
	}
	logsMaker := &logs.Maker{
		Logger: opts.Logger,
	}

	constructors := map[resource.Kind]view.Constructor{
		resource.Query:        queryMaker.Make,
		resource.QueryBrowser: browserMaker.Make,
		resource.Logs:         logsMaker.Make,
	}
	for _, kind := range resource.EntityKinds {
		constructors[kind] = entityMaker.For(kind)
	}
	return view.NewFactory(constructors)
}
