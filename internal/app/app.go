// Package app wires the secretary, AI twin, stores, and memory into a single
// controller the CLI talks to.
package app

import (
	"time"

	"tarius/internal/calendar"
	"tarius/internal/config"
	"tarius/internal/logging"
	"tarius/internal/memory"
	"tarius/internal/secretary"
	"tarius/internal/tasklist"
	"tarius/internal/twin"
)

// Controller routes user input to the secretary or the AI twin and owns
// shutdown of the persistent stores.
type Controller struct {
	config    config.Config
	calendar  *calendar.Store
	tasks     *tasklist.Store
	memory    *memory.Store
	secretary *secretary.Secretary
	twin      *twin.Twin
	logger    logging.Logger
}

// New builds a Controller with all components loaded from cfg's data paths.
func New(cfg config.Config, logger logging.Logger) (*Controller, error) {
	logger = logging.OrNop(logger)

	cal := calendar.NewStore(cfg.EventsPath(), logger)
	tasks := tasklist.NewStore(cfg.TasksPath(), logger)

	mem, err := memory.NewStore(cfg.ConversationsDir(), logger)
	if err != nil {
		return nil, err
	}

	return &Controller{
		config:    cfg,
		calendar:  cal,
		tasks:     tasks,
		memory:    mem,
		secretary: secretary.New(cal, tasks, logger),
		twin:      twin.New(mem, logger),
		logger:    logger,
	}, nil
}

// ProcessInput dispatches one utterance. Scheduling, reminder, and summary
// requests go to the secretary; everything else gets a twin response.
func (c *Controller) ProcessInput(input string) string {
	if c.secretary.IsSecretaryTask(input) {
		c.logger.Debug("Routing to secretary: %q", input)
		return c.secretary.HandleTask(input)
	}
	c.logger.Debug("Routing to twin: %q", input)
	return c.twin.GenerateResponse(input)
}

// CheckReminders returns notification lines for everything due at now.
func (c *Controller) CheckReminders(now time.Time) []string {
	return c.secretary.PollDue(now)
}

// PollDue implements scheduler.DueSource.
func (c *Controller) PollDue(now time.Time) []string {
	return c.CheckReminders(now)
}

// Calendar exposes the event store for CLI listing commands.
func (c *Controller) Calendar() *calendar.Store { return c.calendar }

// Tasks exposes the task store for CLI listing commands.
func (c *Controller) Tasks() *tasklist.Store { return c.tasks }

// Memory exposes the conversation store.
func (c *Controller) Memory() *memory.Store { return c.memory }

// Shutdown flushes every store. The first error is returned; later stores
// are still flushed.
func (c *Controller) Shutdown() error {
	var first error
	if err := c.calendar.Save(); err != nil {
		c.logger.Error("Failed to flush calendar: %v", err)
		first = err
	}
	if err := c.tasks.Save(); err != nil {
		c.logger.Error("Failed to flush task list: %v", err)
		if first == nil {
			first = err
		}
	}
	if err := c.memory.Close(); err != nil {
		c.logger.Error("Failed to close conversation memory: %v", err)
		if first == nil {
			first = err
		}
	}
	return first
}
