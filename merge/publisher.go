package merge

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/paulmach/orb/geojson"
)

// Publisher accumulates layout fragments per source and publishes the merged
// FeatureCollection. The merged topic is retained so late subscribers get
// the latest result.
type Publisher struct {
	client    mqtt.Client
	config    *ServiceConfig
	qos       byte
	retain    bool
	fragments map[string]*geojson.FeatureCollection
	mu        sync.RWMutex
}

// NewPublisher creates a merged-result publisher. If client is nil,
// publishing is disabled (for testing the merge path alone).
func NewPublisher(client mqtt.Client, config *ServiceConfig) *Publisher {
	return &Publisher{
		client:    client,
		config:    config,
		qos:       1,
		retain:    true,
		fragments: make(map[string]*geojson.FeatureCollection),
	}
}

// AddFragment replaces one source's fragment set with the given GeoJSON
// payload.
func (p *Publisher) AddFragment(source string, payload []byte) error {
	fc, err := geojson.UnmarshalFeatureCollection(payload)
	if err != nil {
		return fmt.Errorf("parsing fragment GeoJSON: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.fragments[source] = fc
	return nil
}

// RemoveFragment drops one source's fragments (e.g. when it goes offline).
func (p *Publisher) RemoveFragment(source string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.fragments, source)
}

// FragmentCount returns the number of sources with stored fragments.
func (p *Publisher) FragmentCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.fragments)
}

// MergeFragments runs the engine over every stored fragment and returns the
// merged FeatureCollection.
func (p *Publisher) MergeFragments() (*geojson.FeatureCollection, error) {
	p.mu.RLock()
	sources := make([]*geojson.FeatureCollection, 0, len(p.fragments))
	for _, fc := range p.fragments {
		sources = append(sources, fc)
	}
	p.mu.RUnlock()

	merger := NewMerger[string, float64]()
	merger.SetSettings(p.config.Merge)
	for _, fc := range sources {
		if err := AddFeatureCollection(merger, fc, p.config.PropertyKey); err != nil {
			return nil, err
		}
	}
	merger.RunParallel(p.config.Merge.Threads)

	return ToFeatureCollection(merger.GetAllPolygons(), merger.PropDiffAreas(), p.config.PropertyKey), nil
}

// PublishMerged merges all fragments and publishes the result to
// <prefix>/merged.
func (p *Publisher) PublishMerged() error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	merged, err := p.MergeFragments()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("marshaling merged GeoJSON: %w", err)
	}

	topic := fmt.Sprintf("%s/merged", p.config.TopicPrefix)
	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	log.Printf("Published merged result: %d features from %d sources",
		len(merged.Features), p.FragmentCount())
	return nil
}

// SetQoS sets the Quality of Service level for publishing (0, 1, or 2).
func (p *Publisher) SetQoS(qos byte) {
	if qos <= 2 {
		p.qos = qos
	}
}

// SetRetain sets whether published messages are retained by the broker.
func (p *Publisher) SetRetain(retain bool) {
	p.retain = retain
}
