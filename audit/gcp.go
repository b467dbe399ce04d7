package audit

import (
	"context"

	"cloud.google.com/go/datastore"
	"github.com/gobridge/akumabot/bot"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
)

// GCPStore implements Store and keeps invocations in a Google Cloud Platform Datastore.
type GCPStore struct {
	ds   *datastore.Client
	kind string
}

// NewGCPStore construct a new *GCPStore.
func NewGCPStore(ds *datastore.Client) *GCPStore {
	return &GCPStore{
		ds:   ds,
		kind: "CommandInvocation",
	}
}

func (s *GCPStore) Record(ctx context.Context, e bot.Event) error {
	_, err := s.ds.Put(ctx, datastore.IncompleteKey(s.kind, nil), newEntry(e))
	return errors.Wrap(err, "storing invocation")
}

func (s *GCPStore) Counts(ctx context.Context) (map[string]int, error) {
	q := datastore.NewQuery(s.kind).
		Project("Command")

	counts := map[string]int{}
	it := s.ds.Run(ctx, q)
	for {
		var e entry
		_, err := it.Next(&e)
		if err == iterator.Done {
			return counts, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "counting invocations")
		}
		counts[e.Command]++
	}
}
