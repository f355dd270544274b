package provisioning_test

import (
	"context"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/imagepod/internal/config"
	"github.com/imamik/imagepod/internal/platform/runpod"
	"github.com/imamik/imagepod/internal/provisioning"
)

// stepClock advances by exactly the requested duration on every Sleep.
type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

func (c *stepClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.now = c.now.Add(d)
	return nil
}

func (c *stepClock) WithTimeout(ctx context.Context, _ time.Duration) (context.Context, context.CancelFunc) {
	return context.WithCancel(ctx)
}

// providerScript replays desired statuses, reporting runtime uptime as time passes.
type providerScript struct {
	clock    *stepClock
	started  time.Time
	statuses []string
	errs     map[int]error
	polls    int
}

func (p *providerScript) client() *runpod.MockClient {
	return &runpod.MockClient{
		CreatePodFunc: func(_ context.Context, input runpod.CreatePodInput) (*runpod.Pod, error) {
			p.started = p.clock.Now()
			return &runpod.Pod{ID: "zwi3zrty402ecv", Name: input.Name, DesiredStatus: "CREATED"}, nil
		},
		GetPodFunc: func(_ context.Context, podID string) (*runpod.Pod, error) {
			i := p.polls
			p.polls++
			if err, ok := p.errs[i]; ok {
				return nil, err
			}
			status := p.statuses[min(i, len(p.statuses)-1)]
			pod := &runpod.Pod{ID: podID, DesiredStatus: status, GPUCount: 1}
			if status == "RUNNING" {
				pod.Machine = &runpod.Machine{PodHostID: podID + "-64410f25", GPUDisplayName: "RTX 4090"}
				pod.Runtime = &runpod.Runtime{UptimeInSeconds: int(p.clock.Now().Sub(p.started).Seconds())}
			}
			return pod, nil
		},
	}
}

var _ = Describe("Deploying an image-generation pod", func() {
	var (
		clock   *stepClock
		script  *providerScript
		request provisioning.ProvisionRequest
		opts    provisioning.AwaitOptions
	)

	BeforeEach(func() {
		clock = &stepClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
		script = &providerScript{clock: clock}

		var err error
		request, err = provisioning.BuildRequest(&config.Deployment{
			Name:            "qwen-image",
			Image:           "ghcr.io/example/qwen-image:latest",
			AcceleratorType: "NVIDIA GeForce RTX 4090",
		})
		Expect(err).NotTo(HaveOccurred())

		opts = provisioning.AwaitOptions{
			Timeout:         5 * time.Minute,
			PollInterval:    15 * time.Second,
			MinStableUptime: 30 * time.Second,
		}
	})

	deploy := func() provisioning.DeploymentOutcome {
		orch := provisioning.NewOrchestrator(script.client(), provisioning.WithClock(clock))
		return orch.Deploy(context.Background(), request, opts)
	}

	Context("when the pod boots normally", func() {
		BeforeEach(func() {
			script.statuses = []string{"CREATED", "RUNNING"}
		})

		It("waits for stable uptime and reports the proxy URL", func() {
			out := deploy()

			Expect(out.IsReady()).To(BeTrue())
			Expect(out.Polls).To(Equal(3))
			summary := provisioning.Report(out, request.HTTPPort())
			Expect(summary.ProxyURL).To(Equal("http://zwi3zrty402ecv-8080.proxy.runpod.net/"))
			Expect(summary.SSHTarget).To(Equal("zwi3zrty402ecv-64410f25@ssh.runpod.io"))
			Expect(summary.Machine).To(Equal("RTX 4090"))
		})
	})

	Context("when the provider API flaps", func() {
		BeforeEach(func() {
			script.statuses = []string{"RUNNING"}
			script.errs = map[int]error{
				0: &runpod.APIError{StatusCode: http.StatusBadGateway},
				1: &runpod.APIError{StatusCode: http.StatusTooManyRequests},
			}
		})

		It("keeps polling through transient errors", func() {
			out := deploy()

			Expect(out.IsReady()).To(BeTrue())
			Expect(out.Polls).To(Equal(3))
		})
	})

	Context("when the container exits", func() {
		BeforeEach(func() {
			script.statuses = []string{"CREATED", "EXITED"}
		})

		It("fails without waiting for the timeout", func() {
			out := deploy()

			Expect(out.IsReady()).To(BeFalse())
			Expect(out.Reason).To(ContainSubstring("STOPPED"))
			Expect(out.Polls).To(Equal(2))

			summary := provisioning.Report(out, request.HTTPPort())
			Expect(summary.PodID).To(Equal("zwi3zrty402ecv"))
			Expect(summary.CleanupHint).NotTo(BeEmpty())
		})
	})

	Context("when the pod never becomes ready", func() {
		BeforeEach(func() {
			script.statuses = []string{"CREATED"}
		})

		It("times out within one poll interval of the deadline", func() {
			out := deploy()

			Expect(out.Reason).To(Equal(provisioning.ReasonTimeout))
			Expect(out.Elapsed).To(BeNumerically(">=", opts.Timeout))
			Expect(out.Elapsed).To(BeNumerically("<", opts.Timeout+opts.PollInterval))

			var timeoutErr *provisioning.TimeoutError
			Expect(out.Err).To(BeAssignableToTypeOf(timeoutErr))
		})
	})
})
