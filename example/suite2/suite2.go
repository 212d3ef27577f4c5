package suite2

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"go.aporeto.io/tapcheck"
)

func init() {

	tapcheck.RegisterTest(tapcheck.Test{
		Name:        "Create a network policy and check traffic",
		Description: "This test creates a network access policy, two processing units and verifies communication between them.",
		Author:      "Antoine Mercadal",
		Tags:        []string{"suite2"},
		Function: func(ctx context.Context, t *tapcheck.TestCase) error {

			fmt.Fprintln(t, "create a namespace") // nolint
			fmt.Fprintln(t, "add a policy")       // nolint
			fmt.Fprintln(t, "send traffic")       // nolint

			sent := 10 + rand.Intn(5)

			t.Gte(sent, 10, "enough packets were sent")
			t.Assert("all packets were received", sent, convey.ShouldBeGreaterThan, 0)

			return nil
		},
	})

	tapcheck.RegisterTest(tapcheck.Test{
		Name:        "Traffic stays allowed",
		Description: "This test verifies the policy keeps allowing traffic for a while.",
		Author:      "Antoine Mercadal",
		Tags:        []string{"suite2", "retry"},
		Function: func(ctx context.Context, t *tapcheck.TestCase) error {

			return t.PassWhile(ctx, func(ctx context.Context, t *tapcheck.TestCase) error {
				t.Ok(true, "traffic is allowed")
				return nil
			}, 500*time.Millisecond, 100*time.Millisecond)
		},
	})

	tapcheck.RegisterTest(tapcheck.Test{
		Name:        "Enforcer becomes reachable",
		Description: "This test waits for the enforcer without recording intermediate checks.",
		Author:      "Antoine Mercadal",
		Tags:        []string{"suite2", "retry"},
		Function: func(ctx context.Context, t *tapcheck.TestCase) error {

			start := time.Now()

			return t.WaitUntil(ctx, func(ctx context.Context, t *tapcheck.TestCase) error {
				t.True(time.Since(start) >= 200*time.Millisecond, "enforcer is reachable")
				return nil
			}, time.Second, 0)
		},
	})
}
