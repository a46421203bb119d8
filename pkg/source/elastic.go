package source

import (
	"context"
	"encoding/json"
	"io"
	"reflect"

	"github.com/olivere/elastic/v7"
)

// ElasticSource streams documents from an Elasticsearch index using the
// scroll API. Each hit is unmarshalled into a fresh copy of the prototype
// record, so hits come out as structs of a registered layout.
type ElasticSource struct {
	client    *elastic.Client
	ctx       context.Context
	index     string
	query     elastic.Query
	batchSize int
	proto     reflect.Type
	scroll    *elastic.ScrollService
	buffered  []*elastic.SearchHit
	done      bool
}

// NewElasticSource builds a scrolling source over index. prototype is a
// sample record (struct or pointer to struct) whose type receives each
// decoded document.
func NewElasticSource(ctx context.Context, client *elastic.Client, index string, query elastic.Query, prototype interface{}) *ElasticSource {
	t := reflect.TypeOf(prototype)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return &ElasticSource{
		client:    client,
		ctx:       ctx,
		index:     index,
		query:     query,
		batchSize: 500,
		proto:     t,
	}
}

func (s *ElasticSource) Next() (interface{}, bool, error) {
	for len(s.buffered) == 0 {
		if s.done {
			return nil, false, nil
		}
		if err := s.fetch(); err != nil {
			return nil, false, err
		}
	}
	hit := s.buffered[0]
	s.buffered = s.buffered[1:]

	record := reflect.New(s.proto)
	if err := json.Unmarshal(hit.Source, record.Interface()); err != nil {
		return nil, false, err
	}
	return record.Elem().Interface(), true, nil
}

func (s *ElasticSource) fetch() error {
	if s.scroll == nil {
		s.scroll = s.client.Scroll(s.index).Size(s.batchSize)
		if s.query != nil {
			s.scroll = s.scroll.Query(s.query)
		}
	}
	result, err := s.scroll.Do(s.ctx)
	if err == io.EOF {
		s.done = true
		return nil
	}
	if err != nil {
		return err
	}
	if result.Hits == nil || len(result.Hits.Hits) == 0 {
		s.done = true
		return nil
	}
	s.buffered = result.Hits.Hits
	return nil
}

func (s *ElasticSource) Close() error {
	if s.scroll == nil {
		return nil
	}
	return s.scroll.Clear(s.ctx)
}
