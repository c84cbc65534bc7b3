package supervision

import (
	"context"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/marcus-qen/a1bridge/internal/a1"
	"github.com/marcus-qen/a1bridge/internal/transport"
)

// stubClient answers supervision calls from fixed data.
type stubClient struct {
	types    []string
	policies []string
	err      error
	block    bool
	checks   atomic.Int32
}

func (c *stubClient) wait(ctx context.Context) error {
	if c.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return c.err
}

func (c *stubClient) PolicyTypeIDs(ctx context.Context) ([]string, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.types, nil
}

func (c *stubClient) PolicyIDs(ctx context.Context) ([]string, error) {
	return c.policies, nil
}

func (c *stubClient) PolicyTypeSchema(context.Context, string) (string, error) { return "{}", nil }

func (c *stubClient) PutPolicy(context.Context, a1.Policy) (string, error) { return "", nil }

func (c *stubClient) DeletePolicy(context.Context, a1.Policy) (string, error) { return "", nil }

func (c *stubClient) DeleteAllPolicies(context.Context, a1.IDSet) ([]string, error) { return nil, nil }

func (c *stubClient) PolicyStatus(context.Context, a1.Policy) (string, error) { return "", nil }

func (c *stubClient) ProtocolVersion(context.Context) (a1.ProtocolType, error) {
	c.checks.Add(1)
	return a1.ProtocolCustom, nil
}

var _ = Describe("Supervisor", func() {
	var (
		ctx     context.Context
		healthy *stubClient
		broken  *stubClient
	)

	BeforeEach(func() {
		ctx = context.Background()
		healthy = &stubClient{types: []string{"type1", "type2"}, policies: []string{"policy1"}}
		broken = &stubClient{err: transport.NewResponseError(503, "unavailable")}
	})

	Context("when constructed", func() {
		It("rejects an invalid schedule", func() {
			_, err := New(nil, Options{Schedule: "every minute"}, nil)
			Expect(err).To(HaveOccurred())
		})

		It("is healthy before the first sweep", func() {
			s, err := New([]Target{{ID: "ric1", Client: healthy}}, Options{}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Healthy()).To(BeTrue())
			Expect(s.Statuses()).To(BeEmpty())
		})
	})

	Context("when running a sweep", func() {
		It("records what every RIC reports", func() {
			s, err := New([]Target{
				{ID: "ric2", Client: broken},
				{ID: "ric1", Client: healthy},
			}, Options{}, nil)
			Expect(err).NotTo(HaveOccurred())

			statuses := s.RunOnce(ctx, TriggerManual)

			By("sorting statuses by RIC id")
			Expect(statuses).To(HaveLen(2))
			Expect(statuses[0].RicID).To(Equal("ric1"))
			Expect(statuses[1].RicID).To(Equal("ric2"))

			By("counting types and instances of the reachable RIC")
			Expect(statuses[0].Available).To(BeTrue())
			Expect(statuses[0].Protocol).To(Equal(a1.ProtocolCustom))
			Expect(statuses[0].PolicyTypes).To(Equal(2))
			Expect(statuses[0].Policies).To(Equal(1))

			By("keeping the error of the unreachable RIC")
			Expect(statuses[1].Available).To(BeFalse())
			Expect(statuses[1].Error).To(ContainSubstring("503"))

			Expect(s.Healthy()).To(BeFalse())
			Expect(s.Statuses()).To(Equal(statuses))
		})

		It("bounds each check by the timeout", func() {
			slow := &stubClient{block: true}
			s, err := New([]Target{{ID: "slow", Client: slow}}, Options{Timeout: 20 * time.Millisecond}, nil)
			Expect(err).NotTo(HaveOccurred())

			statuses := s.RunOnce(ctx, TriggerManual)

			Expect(statuses).To(HaveLen(1))
			Expect(statuses[0].Available).To(BeFalse())
			Expect(statuses[0].Error).To(ContainSubstring("deadline exceeded"))
		})

		It("replaces a failed status once the RIC recovers", func() {
			flaky := &stubClient{err: transport.NewResponseError(500, "")}
			s, err := New([]Target{{ID: "ric1", Client: flaky}}, Options{}, nil)
			Expect(err).NotTo(HaveOccurred())

			s.RunOnce(ctx, TriggerManual)
			Expect(s.Healthy()).To(BeFalse())

			flaky.err = nil
			s.RunOnce(ctx, TriggerManual)
			Expect(s.Healthy()).To(BeTrue())
		})
	})

	Context("when started", func() {
		It("sweeps at startup and stops cleanly", func() {
			s, err := New([]Target{{ID: "ric1", Client: healthy}}, Options{Schedule: "@every 1h"}, nil)
			Expect(err).NotTo(HaveOccurred())

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			s.Start(runCtx)
			s.Start(runCtx)

			Eventually(s.Statuses).Should(HaveLen(1))
			s.Stop()
			s.Stop()

			Expect(healthy.checks.Load()).To(BeEquivalentTo(1))
		})

		It("follows the schedule", func() {
			s, err := New([]Target{{ID: "ric1", Client: healthy}}, Options{Schedule: "@every 1s"}, nil)
			Expect(err).NotTo(HaveOccurred())

			runCtx, cancel := context.WithCancel(ctx)
			s.Start(runCtx)
			DeferCleanup(func() {
				cancel()
				s.Stop()
			})

			Eventually(func() int32 { return healthy.checks.Load() }, 3*time.Second, 50*time.Millisecond).
				Should(BeNumerically(">=", 2))
		})
	})
})
