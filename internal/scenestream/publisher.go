package scenestream

import (
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/banshee-data/pitchview/internal/config"
	"github.com/banshee-data/pitchview/internal/scene"
)

// Config holds configuration for the scene stream server.
type Config struct {
	// ListenAddr is the address to listen on (e.g., "localhost:50061")
	ListenAddr string

	// MaxClients is the maximum number of concurrent subscribers
	MaxClients int

	// ClientBuffer is the number of scenes queued per subscriber before
	// further scenes are dropped for it
	ClientBuffer int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		ListenAddr:   "localhost:50061",
		MaxClients:   8,
		ClientBuffer: 4,
	}
}

// ConfigFrom builds a Config from the service configuration.
func ConfigFrom(cfg *config.Config, listenAddr string) Config {
	return Config{
		ListenAddr:   listenAddr,
		MaxClients:   cfg.GetStreamMaxClients(),
		ClientBuffer: cfg.GetStreamClientBuffer(),
	}
}

// Publisher manages the gRPC server and scene fan-out.
type Publisher struct {
	config   Config
	server   *grpc.Server
	listener net.Listener

	// current is the last published scene, sent first to new subscribers.
	current    *structpb.Struct
	currentGen uint64
	clients    map[uint64]*clientStream
	clientsMu  sync.RWMutex
	nextID     atomic.Uint64

	// Stats
	sceneCount    atomic.Uint64
	clientCount   atomic.Int32
	droppedScenes atomic.Uint64
	staleScenes   atomic.Uint64

	// Lifecycle
	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

type clientStream struct {
	id      uint64
	sceneCh chan *structpb.Struct
}

// NewPublisher creates a new Publisher with the given configuration.
func NewPublisher(cfg Config) *Publisher {
	if cfg.ClientBuffer < 1 {
		cfg.ClientBuffer = 1
	}
	return &Publisher{
		config:  cfg,
		clients: make(map[uint64]*clientStream),
		stopCh:  make(chan struct{}),
	}
}

// Start binds ListenAddr and serves the stream.
func (p *Publisher) Start() error {
	lis, err := net.Listen("tcp", p.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return p.Serve(lis)
}

// Serve serves the stream on lis in the background.
func (p *Publisher) Serve(lis net.Listener) error {
	if !p.running.CompareAndSwap(false, true) {
		return fmt.Errorf("publisher already running")
	}
	p.listener = lis
	p.server = grpc.NewServer()
	RegisterService(p.server, p)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		log.Printf("[scenestream] gRPC server listening on %s", lis.Addr())
		if err := p.server.Serve(lis); err != nil && p.running.Load() {
			log.Printf("[scenestream] gRPC server error: %v", err)
		}
	}()
	return nil
}

// Stop closes every subscription and stops the server.
func (p *Publisher) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.stopCh)

	if p.server != nil {
		p.server.GracefulStop()
	}
	if p.listener != nil {
		p.listener.Close()
	}
	p.wg.Wait()
	log.Printf("[scenestream] gRPC server stopped")
}

// Publish fans sc, the scene of analysis generation gen, out to every
// subscriber without blocking. A subscriber whose queue is full misses the
// scene. Scenes older than the current one are discarded and report false.
func (p *Publisher) Publish(gen uint64, sc *scene.Scene) bool {
	msg, err := SceneToStruct(sc)
	if err != nil {
		log.Printf("[scenestream] failed to encode scene: %v", err)
		return false
	}

	p.clientsMu.Lock()
	defer p.clientsMu.Unlock()
	if gen < p.currentGen {
		p.staleScenes.Add(1)
		log.Printf("[scenestream] discarded scene %s of generation %d (current: %d)", sc.ID, gen, p.currentGen)
		return false
	}
	p.current = msg
	p.currentGen = gen
	p.sceneCount.Add(1)
	for _, c := range p.clients {
		select {
		case c.sceneCh <- msg:
		default:
			dropped := p.droppedScenes.Add(1)
			log.Printf("[scenestream] DROPPED scene %s for client %d (total dropped: %d)", sc.ID, c.id, dropped)
		}
	}
	return true
}

// Subscribe implements SceneStreamServer.
func (p *Publisher) Subscribe(_ *emptypb.Empty, stream grpc.ServerStream) error {
	client, err := p.addClient()
	if err != nil {
		return err
	}
	defer p.removeClient(client.id)

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.stopCh:
			return nil
		case msg := <-client.sceneCh:
			if err := stream.SendMsg(msg); err != nil {
				return err
			}
		}
	}
}

func (p *Publisher) addClient() (*clientStream, error) {
	p.clientsMu.Lock()
	defer p.clientsMu.Unlock()

	if p.config.MaxClients > 0 && len(p.clients) >= p.config.MaxClients {
		return nil, status.Errorf(codes.ResourceExhausted, "max clients (%d) reached", p.config.MaxClients)
	}
	c := &clientStream{
		id:      p.nextID.Add(1),
		sceneCh: make(chan *structpb.Struct, p.config.ClientBuffer),
	}
	if p.current != nil {
		c.sceneCh <- p.current
	}
	p.clients[c.id] = c
	p.clientCount.Add(1)
	log.Printf("[scenestream] Client connected: %d (total: %d)", c.id, p.clientCount.Load())
	return c, nil
}

func (p *Publisher) removeClient(id uint64) {
	p.clientsMu.Lock()
	defer p.clientsMu.Unlock()
	if _, ok := p.clients[id]; !ok {
		return
	}
	delete(p.clients, id)
	p.clientCount.Add(-1)
	log.Printf("[scenestream] Client disconnected: %d (remaining: %d)", id, p.clientCount.Load())
}

// Stats returns current publisher statistics.
func (p *Publisher) Stats() PublisherStats {
	return PublisherStats{
		SceneCount:    p.sceneCount.Load(),
		ClientCount:   p.clientCount.Load(),
		DroppedScenes: p.droppedScenes.Load(),
		StaleScenes:   p.staleScenes.Load(),
		Running:       p.running.Load(),
	}
}

// PublisherStats contains publisher statistics.
type PublisherStats struct {
	SceneCount    uint64 `json:"scene_count"`
	ClientCount   int32  `json:"client_count"`
	DroppedScenes uint64 `json:"dropped_scenes"`
	StaleScenes   uint64 `json:"stale_scenes"`
	Running       bool   `json:"running"`
}
