package store

import (
	"github.com/akeil/tkb"
	"github.com/akeil/tkb/internal/logging"
	"github.com/akeil/tkb/pkg/api"
)

// Apply drops the cached data that a notification makes stale.
// It can be used as an api.MessageHandler.
func (s *Store) Apply(msg api.Message) {
	if msg.PaperID == "" {
		logging.Debug("Ignore %v notification without paper", msg.Event)
		return
	}
	logging.WithField("event", msg.Event.String()).Debugf("Apply for paper %q, layer %q", msg.PaperID, msg.LayerID)

	paper := tkb.NewParams("id", msg.PaperID)
	layers := tkb.NewParams("paperId", msg.PaperID)

	var errs []error
	switch msg.Event {
	case api.LayerAdded, api.LayerDeleted:
		errs = append(errs, s.InvalidateList(tkb.LayerResource, layers))
	case api.LayerUpdated, api.TrainingStarted, api.TrainingFinished:
		if msg.LayerID != "" {
			errs = append(errs, s.Invalidate(tkb.LayerResource, layers.With("id", msg.LayerID)))
		}
		errs = append(errs, s.InvalidateList(tkb.LayerResource, layers))
	}

	// counts and training flags in the paper's class status
	errs = append(errs,
		s.Invalidate(tkb.PaperResource, paper),
		s.InvalidateList(tkb.PaperResource, nil),
	)

	for _, err := range errs {
		if err != nil {
			logging.Warning("Failed to apply %v for paper %q: %v", msg.Event, msg.PaperID, err)
		}
	}
}
