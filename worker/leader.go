package worker

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gilby125/weekend-trip-api/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// LeaderElector holds a Redis lock so that only one instance runs the
// cache warmer at a time.
type LeaderElector struct {
	client         *redis.Client
	lockKey        string
	lockTTL        time.Duration
	renewInterval  time.Duration
	instanceID     string
	isLeader       atomic.Bool
	stopOnce       sync.Once
	stopChan       chan struct{}
	wg             sync.WaitGroup
	onBecomeLeader func()
	onLoseLeader   func()
	log            *logger.Logger
}

// NewLeaderElector creates a new leader elector. Callbacks may be nil and
// run on the election goroutine.
func NewLeaderElector(
	client *redis.Client,
	lockKey string,
	lockTTL time.Duration,
	renewInterval time.Duration,
	onBecomeLeader func(),
	onLoseLeader func(),
) *LeaderElector {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "trips"
	}
	instanceID := hostname + "-" + uuid.NewString()[:8]

	return &LeaderElector{
		client:         client,
		lockKey:        lockKey,
		lockTTL:        lockTTL,
		renewInterval:  renewInterval,
		instanceID:     instanceID,
		stopChan:       make(chan struct{}),
		onBecomeLeader: onBecomeLeader,
		onLoseLeader:   onLoseLeader,
		log:            logger.WithFields(map[string]interface{}{"instance": instanceID, "lock_key": lockKey}),
	}
}

// Start runs the election loop in a goroutine.
func (le *LeaderElector) Start() {
	le.wg.Add(1)
	go le.electionLoop()
	le.log.Info("Leader election started", "ttl", le.lockTTL.String(), "renew", le.renewInterval.String())
}

// Stop ends the election loop and releases the lock if held.
func (le *LeaderElector) Stop() {
	le.stopOnce.Do(func() { close(le.stopChan) })
	le.wg.Wait()

	if le.isLeader.Swap(false) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		le.releaseLock(ctx)
		if le.onLoseLeader != nil {
			le.onLoseLeader()
		}
	}
	le.log.Info("Leader election stopped")
}

// IsLeader returns whether this instance currently holds leadership.
func (le *LeaderElector) IsLeader() bool {
	return le.isLeader.Load()
}

// InstanceID returns the value stored in the lock while leading.
func (le *LeaderElector) InstanceID() string {
	return le.instanceID
}

func (le *LeaderElector) electionLoop() {
	defer le.wg.Done()

	le.tryMaintainLeadership()

	ticker := time.NewTicker(le.renewInterval)
	defer ticker.Stop()

	for {
		select {
		case <-le.stopChan:
			return
		case <-ticker.C:
			le.tryMaintainLeadership()
		}
	}
}

func (le *LeaderElector) tryMaintainLeadership() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if le.isLeader.Load() {
		if !le.renewLock(ctx) {
			le.log.Warn("Lost leadership")
			le.isLeader.Store(false)
			if le.onLoseLeader != nil {
				le.onLoseLeader()
			}
		}
		return
	}

	if le.tryAcquireLock(ctx) {
		le.log.Info("Acquired leadership")
		le.isLeader.Store(true)
		if le.onBecomeLeader != nil {
			le.onBecomeLeader()
		}
	}
}

func (le *LeaderElector) tryAcquireLock(ctx context.Context) bool {
	ok, err := le.client.SetNX(ctx, le.lockKey, le.instanceID, le.lockTTL).Result()
	if err != nil {
		le.log.Error(err, "Error acquiring leader lock")
		return false
	}
	return ok
}

// renew only if we still own the lock
var renewScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

func (le *LeaderElector) renewLock(ctx context.Context) bool {
	n, err := renewScript.Run(ctx, le.client, []string{le.lockKey}, le.instanceID, le.lockTTL.Milliseconds()).Int()
	if err != nil {
		le.log.Error(err, "Error renewing leader lock")
		return false
	}
	return n == 1
}

// release only if we still own the lock
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

func (le *LeaderElector) releaseLock(ctx context.Context) {
	n, err := releaseScript.Run(ctx, le.client, []string{le.lockKey}, le.instanceID).Int()
	switch {
	case err != nil:
		le.log.Error(err, "Error releasing leader lock")
	case n == 0:
		le.log.Warn("Leader lock was already gone or held by another instance")
	default:
		le.log.Info("Released leader lock")
	}
}
