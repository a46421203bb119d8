package source

import (
	"context"
	"reflect"

	"cloud.google.com/go/datastore"
)

// DatastoreSource streams the entities matched by a Cloud Datastore query.
// The query runs on the first call to Next; results are held in memory
// because GetAll materializes the full result set.
type DatastoreSource struct {
	client  *datastore.Client
	ctx     context.Context
	query   *datastore.Query
	proto   reflect.Type
	results reflect.Value
	pos     int
	loaded  bool
}

// NewDatastoreSource builds a source over the entities matched by query.
// prototype is a sample record (struct or pointer to struct) whose type
// receives each loaded entity.
func NewDatastoreSource(ctx context.Context, client *datastore.Client, query *datastore.Query, prototype interface{}) *DatastoreSource {
	t := reflect.TypeOf(prototype)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return &DatastoreSource{client: client, ctx: ctx, query: query, proto: t}
}

func (s *DatastoreSource) Next() (interface{}, bool, error) {
	if !s.loaded {
		slice := reflect.New(reflect.SliceOf(s.proto))
		if _, err := s.client.GetAll(s.ctx, s.query, slice.Interface()); err != nil {
			return nil, false, err
		}
		s.results = slice.Elem()
		s.loaded = true
	}
	if s.pos >= s.results.Len() {
		return nil, false, nil
	}
	record := s.results.Index(s.pos).Interface()
	s.pos++
	return record, true, nil
}

func (s *DatastoreSource) Close() error { return nil }
