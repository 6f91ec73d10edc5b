package redis

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"fleet-compliance/internal/config"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	client      *redis.Client
	config      config.RedisConfig
	mu          sync.RWMutex
	isConnected bool
	ctx         context.Context
	cancel      context.CancelFunc
}

type HealthStatus struct {
	IsConnected    bool          `json:"isConnected"`
	LastPing       time.Time     `json:"lastPing"`
	ResponseTime   time.Duration `json:"responseTime"`
	ConnectionInfo string        `json:"connectionInfo"`
	Error          string        `json:"error,omitempty"`
}

// NewClient creates a managed Redis client with a background health check.
func NewClient(cfg config.RedisConfig) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
	}

	c.connect()
	go c.healthCheckLoop()

	return c
}

func (c *Client) connect() {
	var opt *redis.Options

	if c.config.URL != "" {
		parsed, err := redis.ParseURL(c.config.URL)
		if err != nil {
			log.Printf("Failed to parse Redis URL: %v, falling back to host:port", err)
		} else {
			opt = parsed
		}
	}

	if opt == nil {
		opt = &redis.Options{
			Addr:     fmt.Sprintf("%s:%s", c.config.Host, c.config.Port),
			Password: c.config.Password,
			DB:       c.config.DB,
		}
	}

	opt.PoolSize = c.config.PoolSize
	opt.MinIdleConns = c.config.MinIdleConns
	opt.DialTimeout = c.config.DialTimeout
	opt.ReadTimeout = c.config.ReadTimeout
	opt.WriteTimeout = c.config.WriteTimeout

	c.mu.Lock()
	c.client = redis.NewClient(opt)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.GetClient().Ping(ctx).Err()

	c.mu.Lock()
	c.isConnected = err == nil
	c.mu.Unlock()

	if err != nil {
		log.Printf("Redis connection test failed: %v", err)
	} else {
		log.Printf("Redis connected successfully")
	}
}

// GetClient returns the underlying Redis client (thread-safe).
func (c *Client) GetClient() *redis.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// IsConnected returns the connection status from the last ping.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

// HealthCheck pings Redis and returns detailed status.
func (c *Client) HealthCheck() HealthStatus {
	client := c.GetClient()

	status := HealthStatus{
		ConnectionInfo: fmt.Sprintf("%s:%s", c.config.Host, c.config.Port),
	}

	if client == nil {
		status.Error = "Redis client not initialized"
		return status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	start := time.Now()
	err := client.Ping(ctx).Err()
	status.ResponseTime = time.Since(start)
	status.LastPing = time.Now()

	c.mu.Lock()
	c.isConnected = err == nil
	c.mu.Unlock()

	if err != nil {
		status.Error = err.Error()
	} else {
		status.IsConnected = true
	}

	return status
}

func (c *Client) healthCheckLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			status := c.HealthCheck()
			if !status.IsConnected {
				log.Printf("Redis health check failed: %s", status.Error)
			}
		}
	}
}

// Close stops the health check loop and closes the connection pool.
func (c *Client) Close() error {
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
