package merge

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"gopkg.in/yaml.v3"
)

// ServiceConfig configures the live merge service: broker connection, topic
// layout, the GeoJSON property key polygons merge under, and the engine
// settings.
type ServiceConfig struct {
	Broker      string   `yaml:"broker"`
	ClientID    string   `yaml:"clientId"`
	Username    string   `yaml:"username"`
	Password    string   `yaml:"password"`
	TopicPrefix string   `yaml:"topicPrefix"`
	PropertyKey string   `yaml:"propertyKey"`
	Merge       Settings `yaml:"merge"`
}

// LoadServiceConfig loads the service configuration from a YAML file.
func LoadServiceConfig(path string) (*ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := ServiceConfig{
		TopicPrefix: "polymerge",
		PropertyKey: "layer",
		Merge:       DefaultSettings(),
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if config.Broker == "" {
		return nil, fmt.Errorf("broker is required")
	}
	return &config, nil
}

// FragmentService subscribes to layout fragments and republishes the merged
// result after every update. Fragment payloads are GeoJSON
// FeatureCollections, one topic per source under <prefix>/fragments/.
type FragmentService struct {
	client      mqtt.Client
	config      *ServiceConfig
	publisher   *Publisher
	isConnected bool
	mu          sync.RWMutex
}

// NewFragmentService builds the service around an existing (not yet
// connected) MQTT client. Pass the client built by NewServiceClient, or a
// mock in tests.
func NewFragmentService(client mqtt.Client, config *ServiceConfig) *FragmentService {
	return &FragmentService{
		client:    client,
		config:    config,
		publisher: NewPublisher(client, config),
	}
}

// NewServiceClient builds a paho client for long-lived service use:
// auto-reconnect, retained subscriptions, relaxed ordering.
func NewServiceClient(config *ServiceConfig, onConnect mqtt.OnConnectHandler) mqtt.Client {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)

	clientID := config.ClientID
	if clientID == "" {
		clientID = "polymerge"
	}
	opts.SetClientID(clientID)

	if config.Username != "" {
		opts.SetUsername(config.Username)
		opts.SetPassword(config.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(false)
	opts.SetOrderMatters(false)
	opts.SetOnConnectHandler(onConnect)

	return mqtt.NewClient(opts)
}

// Serve connects and subscribes, then blocks until stop is closed.
func (s *FragmentService) Serve(stop <-chan struct{}) error {
	token := s.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("connecting to MQTT broker: timeout")
	}
	if token.Error() != nil {
		return fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}
	s.setConnected(true)

	if err := s.subscribe(); err != nil {
		return err
	}

	<-stop
	s.client.Disconnect(250)
	s.setConnected(false)
	return nil
}

// subscribe wires the fragment topics onto the connected client.
func (s *FragmentService) subscribe() error {
	topic := fmt.Sprintf("%s/fragments/+", s.config.TopicPrefix)
	log.Printf("Subscribing to %s", topic)

	token := s.client.Subscribe(topic, 1, s.onFragment)
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, token.Error())
	}
	return nil
}

// onFragment stores one source's fragment set and republishes the merge.
func (s *FragmentService) onFragment(client mqtt.Client, msg mqtt.Message) {
	parts := strings.Split(msg.Topic(), "/")
	source := parts[len(parts)-1]

	if err := s.publisher.AddFragment(source, msg.Payload()); err != nil {
		log.Printf("Ignoring fragment from %s: %v", source, err)
		return
	}

	if err := s.publisher.PublishMerged(); err != nil {
		log.Printf("Error publishing merged result: %v", err)
	}
}

// IsConnected reports the connection state.
func (s *FragmentService) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

func (s *FragmentService) setConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isConnected = connected
}
