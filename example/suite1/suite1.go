package suite1

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.aporeto.io/tapcheck"
)

type namespace struct {
	Name   string
	Parent string
	Tags   []string
}

func init() {

	tapcheck.BeforeAll(func(ctx context.Context, t *tapcheck.TestCase) error {
		t.Comment("preparing the environment")
		t.Pass("environment is ready")
		return nil
	})

	tapcheck.BeforeEach(func(ctx context.Context, t *tapcheck.TestCase) error {
		t.ErrorCommentFunc(func() string { return fmt.Sprintf("failed at %s", time.Now().Format(time.RFC3339)) })
		return nil
	})

	tapcheck.RegisterTest(tapcheck.Test{
		Name:        "Create a namespace",
		Description: "This test creates a namespace and compares it with the expected one.",
		Author:      "Antoine",
		Tags:        []string{"suite1", "namespaces"},
		Function: func(ctx context.Context, t *tapcheck.TestCase) error {

			ns := namespace{Name: "/a/b", Parent: "/a"}

			t.Equal(ns.Name, "/a/b", "namespace name is correct")
			t.DeepEqual(ns, namespace{Name: "/a/b", Parent: "/a"}, "namespace is correct")
			t.DeepLooseEqual(ns.Tags, []string{}, "namespace has no tags")

			return nil
		},
	})

	tapcheck.RegisterTest(tapcheck.Test{
		Name:        "Wait for the namespace to be ready",
		Description: "This test polls the namespace until it becomes ready.",
		Author:      "Satyam",
		Tags:        []string{"suite1", "retry"},
		Function: func(ctx context.Context, t *tapcheck.TestCase) error {

			deadline := time.Now().Add(300 * time.Millisecond)

			return t.TryUntil(ctx, func(ctx context.Context, t *tapcheck.TestCase) error {
				t.True(time.Now().After(deadline), "namespace is ready")
				return nil
			}, 2*time.Second, 0)
		},
	})

	tapcheck.RegisterTest(tapcheck.Test{
		Name:        "Namespace name validation",
		Description: "This test checks that invalid names are refused.",
		Author:      "Satyam",
		Tags:        []string{"suite1", "validation"},
		Function: func(ctx context.Context, t *tapcheck.TestCase) error {

			t.Throws(func() error { return validate("") }, regexp.MustCompile("empty"), "empty names are refused")
			t.DoesNotThrow(func() error { return validate("/a") }, nil, "valid names are accepted")

			return nil
		},
	})

	tapcheck.RegisterSkipped(tapcheck.Test{
		Name:        "Delete a namespace",
		Description: "Deletion is not implemented yet.",
		Author:      "Antoine",
		Tags:        []string{"suite1", "namespaces"},
	})
}

func validate(name string) error {

	if name == "" {
		return fmt.Errorf("name must not be empty")
	}

	return nil
}
