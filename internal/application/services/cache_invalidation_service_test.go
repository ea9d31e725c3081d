package services_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/openlots/parking-reservation/internal/application/services"
	"github.com/openlots/parking-reservation/internal/domain/entities"
	"github.com/openlots/parking-reservation/internal/domain/providers"
)

// MockCacheProvider for testing
type MockCacheProvider struct {
	mu      sync.RWMutex
	data    map[string][]byte
	deleted []string
}

func NewMockCacheProvider() *MockCacheProvider {
	return &MockCacheProvider{
		data:    make(map[string][]byte),
		deleted: make([]string, 0),
	}
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return nil, nil
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *MockCacheProvider) DeletePattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.data {
		if globMatch(pattern, key) {
			delete(m.data, key)
			m.deleted = append(m.deleted, key)
		}
	}
	return nil
}

// globMatch mimics the star-only glob matching Redis applies to SCAN
// MATCH patterns, so the mock deletes the same keys the adapter would.
func globMatch(pattern, key string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == key
	}
	if !strings.HasPrefix(key, parts[0]) {
		return false
	}
	key = key[len(parts[0]):]
	for i := 1; i < len(parts)-1; i++ {
		idx := strings.Index(key, parts[i])
		if idx < 0 {
			return false
		}
		key = key[idx+len(parts[i]):]
	}
	return strings.HasSuffix(key, parts[len(parts)-1])
}

func (m *MockCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *MockCacheProvider) TTL(ctx context.Context, key string) (time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.data[key]; ok {
		return time.Minute * 5, nil
	}
	return 0, nil
}

func (m *MockCacheProvider) DeletedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.deleted)
}

// MockEventBus for testing
type MockEventBus struct {
	mu          sync.Mutex
	subscribers map[string][]chan *entities.ParkingEvent
	published   []*entities.ParkingEvent
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		subscribers: make(map[string][]chan *entities.ParkingEvent),
		published:   make([]*entities.ParkingEvent, 0),
	}
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.ParkingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, event)
	if channels, ok := m.subscribers[channel]; ok {
		for _, ch := range channels {
			select {
			case ch <- event:
			default:
			}
		}
	}
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ParkingEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *entities.ParkingEvent, 10)
	m.subscribers[channel] = append(m.subscribers[channel], ch)
	return ch, nil
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if channels, ok := m.subscribers[channel]; ok {
		for _, ch := range channels {
			close(ch)
		}
		delete(m.subscribers, channel)
	}
	return nil
}

func (m *MockEventBus) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, channels := range m.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	return nil
}

func (m *MockEventBus) SubscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}

func TestCacheInvalidationService_Start(t *testing.T) {
	cache := NewMockCacheProvider()
	eventBus := NewMockEventBus()
	service := services.NewCacheInvalidationService(cache, eventBus)

	err := service.Start()
	if err != nil {
		t.Fatalf("Failed to start service: %v", err)
	}

	if eventBus.SubscriberCount() != 1 {
		t.Errorf("Expected 1 subscriber, got %d", eventBus.SubscriberCount())
	}

	service.Stop()
}

func TestCacheInvalidationService_HandleEvent(t *testing.T) {
	cache := NewMockCacheProvider()
	eventBus := NewMockEventBus()
	service := services.NewCacheInvalidationService(cache, eventBus)

	err := service.Start()
	if err != nil {
		t.Fatalf("Failed to start service: %v", err)
	}
	defer service.Stop()

	if err := cache.Set(context.Background(), "http:cache:parkings/parking-1", []byte("data"), 300); err != nil {
		t.Fatalf("Failed to seed cache data: %v", err)
	}

	event := entities.NewParkingEvent("parking-1", entities.ParkingEventTypeSpaceCreated)
	if err := eventBus.Publish(context.Background(), providers.EventChannelParkingUpdates, event); err != nil {
		t.Fatalf("Failed to publish parking event: %v", err)
	}

	// Wait for event processing
	time.Sleep(200 * time.Millisecond)

	if cache.DeletedCount() == 0 {
		t.Error("Expected cache to be invalidated")
	}
}

func TestCacheInvalidationService_InvalidateParkingCache(t *testing.T) {
	cache := NewMockCacheProvider()
	eventBus := NewMockEventBus()
	service := services.NewCacheInvalidationService(cache, eventBus)

	if err := cache.Set(context.Background(), "http:cache:parkings/parking-1", []byte("data"), 300); err != nil {
		t.Fatalf("Failed to seed cache data: %v", err)
	}

	err := service.InvalidateParkingCache(context.Background(), "parking-1")
	if err != nil {
		t.Fatalf("Failed to invalidate parking cache: %v", err)
	}

	if cache.DeletedCount() == 0 {
		t.Error("Expected cache keys to be deleted")
	}
}

func TestCacheInvalidationService_InvalidatesAreaListings(t *testing.T) {
	cache := NewMockCacheProvider()
	eventBus := NewMockEventBus()
	service := services.NewCacheInvalidationService(cache, eventBus)

	if err := service.Start(); err != nil {
		t.Fatalf("Failed to start service: %v", err)
	}
	defer service.Stop()

	if err := cache.Set(context.Background(), "http:cache:GET/api/parkings/area/lagos", []byte("data"), 300); err != nil {
		t.Fatalf("Failed to seed cache data: %v", err)
	}
	if err := cache.Set(context.Background(), "http:cache:GET/api/users", []byte("data"), 300); err != nil {
		t.Fatalf("Failed to seed cache data: %v", err)
	}

	event := entities.NewParkingEvent("parking-1", entities.ParkingEventTypeSpaceCreated)
	if err := eventBus.Publish(context.Background(), providers.EventChannelParkingUpdates, event); err != nil {
		t.Fatalf("Failed to publish parking event: %v", err)
	}

	// Wait for event processing
	time.Sleep(200 * time.Millisecond)

	if val, _ := cache.Get(context.Background(), "http:cache:GET/api/parkings/area/lagos"); val != nil {
		t.Error("Expected area listing to be invalidated")
	}
	if val, _ := cache.Get(context.Background(), "http:cache:GET/api/users"); val == nil {
		t.Error("Expected unrelated cache entries to survive")
	}
}
