package planner_test

import (
	"context"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/kinorrt/internal/dynamo"
	"github.com/san-kum/kinorrt/internal/env"
	"github.com/san-kum/kinorrt/internal/models"
	"github.com/san-kum/kinorrt/internal/planner"
)

func ginkgoLogger() *zap.SugaredLogger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(GinkgoWriter),
		zapcore.DebugLevel,
	)
	return zap.New(core).Sugar()
}

func newPlanner(kind dynamo.Kind, start, goal dynamo.State, opts planner.Options, envOpts ...env.Option) *planner.RRT {
	m, err := models.New(kind, models.DefaultOptions())
	Expect(err).NotTo(HaveOccurred())
	e, err := env.New(m.States(), start, goal, 0.5, envOpts...)
	Expect(err).NotTo(HaveOccurred())
	p, err := planner.New(m, e, opts, ginkgoLogger())
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("RRT", func() {
	var opts planner.Options

	BeforeEach(func() {
		opts = planner.DefaultOptions()
	})

	Context("geometric model without obstacles", func() {
		It("reaches the goal from the origin", func() {
			p := newPlanner(dynamo.Geometric, dynamo.State{0, 0}, dynamo.State{9.5, 9.5}, opts)

			sol, err := p.Solve(context.Background(), time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.Success).To(BeTrue())
			Expect(sol.Path).NotTo(BeEmpty())
			Expect(sol.Path[0]).To(Equal(orb.Point{0, 0}))
			Expect(planar.Distance(sol.Path[len(sol.Path)-1], orb.Point{9.5, 9.5})).To(BeNumerically("<", 0.5))
		})

		It("returns only the root on a zero budget", func() {
			p := newPlanner(dynamo.Geometric, dynamo.State{0, 0}, dynamo.State{9.5, 9.5}, opts)

			sol, err := p.Solve(context.Background(), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.Success).To(BeFalse())
			Expect(sol.TreeSize).To(Equal(1))
			Expect(sol.Path).To(BeEmpty())
		})
	})

	Context("geometric model in the forest", func() {
		It("keeps every path point clear of the obstacles", func() {
			p := newPlanner(dynamo.Geometric, dynamo.State{0, 0}, dynamo.State{9.5, 9.5}, opts,
				env.WithObstacles(env.ForestLayout()...))

			sol, err := p.Solve(context.Background(), time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.Success).To(BeTrue())
			for _, pt := range sol.Path {
				for _, o := range env.ForestLayout() {
					Expect(planar.Distance(pt, o.Center)).To(BeNumerically(">=", 1.0))
				}
			}
		})
	})

	Context("with bias 1", func() {
		BeforeEach(func() {
			opts.Bias = 1
		})

		It("steers every iteration at the exact goal", func() {
			p := newPlanner(dynamo.Geometric, dynamo.State{0, 0}, dynamo.State{9.5, 9.5}, opts)

			sol, err := p.Solve(context.Background(), time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.Success).To(BeTrue())
			// The straight line is unobstructed, so every node lies on it.
			for _, pt := range sol.Path {
				Expect(pt.X()).To(BeNumerically("~", pt.Y(), 1e-9))
			}
		})

		It("discards extensions that run into an obstacle", func() {
			wall := env.Obstacle{Center: orb.Point{5, 5}, Radius: 1}
			p := newPlanner(dynamo.Geometric, dynamo.State{0, 0}, dynamo.State{9.5, 9.5}, opts,
				env.WithObstacles(wall))

			for i := 0; i < 200; i++ {
				Expect(p.Extend()).To(BeFalse())
			}
			tree := p.Tree()
			for i := 0; i < tree.Len(); i++ {
				s := tree.Node(i).State
				Expect(planar.Distance(orb.Point{s[0], s[1]}, wall.Center)).To(BeNumerically(">=", 1.0))
			}
		})
	})

	DescribeTable("tree invariant after many extensions",
		func(kind dynamo.Kind, start, goal dynamo.State) {
			p := newPlanner(kind, start, goal, opts, env.WithObstacles(env.ForestLayout()...))
			for i := 0; i < 300; i++ {
				if p.Extend() {
					break
				}
			}

			tree := p.Tree()
			Expect(tree.Node(0).Parent).To(Equal(-1))
			for i := 1; i < tree.Len(); i++ {
				parent := tree.Node(i).Parent
				Expect(parent).To(BeNumerically(">=", 0))
				Expect(parent).To(BeNumerically("<", i))
				Expect(tree.PathTo(i)[0]).To(Equal(0))
			}
		},
		Entry("geometric", dynamo.Geometric, dynamo.State{0, 0}, dynamo.State{9.5, 9.5}),
		Entry("velocity", dynamo.Velocity, dynamo.State{0, 0, math.Pi / 4}, dynamo.State{9.5, 9.5, 0}),
		Entry("acceleration", dynamo.Acceleration, dynamo.State{0, 0, 0, math.Pi / 4}, dynamo.State{9.5, 9.5, 0, 0}),
	)

	It("keeps every stored state valid", func() {
		p := newPlanner(dynamo.Acceleration, dynamo.State{0, 0, 0, math.Pi / 4}, dynamo.State{9.5, 9.5, 0, 0}, opts,
			env.WithObstacles(env.ForestLayout()...))
		for i := 0; i < 300; i++ {
			if p.Extend() {
				break
			}
		}

		e := p.Environment()
		tree := p.Tree()
		for i := 1; i < tree.Len(); i++ {
			Expect(e.IsValid(tree.Node(i).State)).To(BeTrue())
		}
	})
})
