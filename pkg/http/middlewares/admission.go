package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bidboard/bidboard/pkg/gate"
	"github.com/bidboard/bidboard/pkg/models"
	"github.com/bidboard/bidboard/pkg/pool"
	"github.com/bidboard/bidboard/pkg/storage"
	"github.com/bidboard/bidboard/pkg/utils"
)

// Admission is the first pipeline stage: it leases a database connection,
// asks the gate to admit the client IP, and guarantees both the gate lock
// and the lease are returned exactly once on every exit path.
type Admission struct {
	Pool            *pool.Pool
	Gate            *gate.Gate
	Store           *storage.Store
	Log             *zap.Logger
	SiteName        string
	SiteDescription string
}

func (m *Admission) Handler(c *fiber.Ctx) error {
	ip := utils.GetClientIP(c)

	lease, err := m.Pool.Acquire()
	if err != nil {
		m.Log.Error("lease acquisition failed", zap.Error(err))
		return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
	}

	if !m.Gate.TryAcquire(ip, lease.ID) {
		lease.Release()
		return c.Status(fiber.StatusForbidden).SendString("Rate Limit Exceeded")
	}

	st := &models.RequestState{
		IP:              ip,
		SiteName:        m.SiteName,
		SiteDescription: m.SiteDescription,
	}
	c.Locals(stateKey, st)
	c.Locals(storeKey, m.Store.WithTrace(st.Trace))

	// Scoped acquisition: whatever the rest of the pipeline does, the lock
	// and the lease go back exactly once.
	defer func() {
		m.Gate.Release(lease.ID)
		lease.Release()
	}()
	return c.Next()
}
