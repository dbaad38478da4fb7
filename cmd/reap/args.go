package main

import (
	"fmt"

	"github.com/cloudreaper/reap/types"
)

// runArgs is the raw flag input to a run or daemon sweep.
type runArgs struct {
	Cloud     string
	Resource  string
	Operation string

	FilterTags     string
	ExceptionTags  string
	NoTags         string
	NameRegex      string
	ExceptionRegex string
	Age            string
	DetachAge      string
	States         string
	DryRun         bool

	Region         string
	ProjectID      string
	SubscriptionID string
	ResourceGroup  string
	SlackChannel   string
}

// runSpec is the validated form of runArgs.
type runSpec struct {
	Clouds   []string
	Kinds    []types.Kind
	Op       types.Operation
	Criteria types.Criteria

	// Explicit is true when both cloud and resource were named, which
	// makes an unsupported pair a configuration error rather than a
	// silent skip.
	Explicit bool
}

var allClouds = []string{"aws", "azure", "gcp"}

// buildRunSpec validates the flags before any cloud call is made.
func buildRunSpec(args runArgs) (*runSpec, error) {
	spec := &runSpec{}

	switch args.Cloud {
	case "aws", "azure", "gcp":
		spec.Clouds = []string{args.Cloud}
	case "all":
		spec.Clouds = allClouds
	case "":
		return nil, fmt.Errorf("--cloud is required")
	default:
		return nil, fmt.Errorf("unknown cloud %q", args.Cloud)
	}

	switch {
	case args.Resource == "all":
		if args.Cloud != "all" {
			return nil, fmt.Errorf("--resource all requires --cloud all")
		}
		spec.Kinds = types.AllKinds
	case types.ValidKind(types.Kind(args.Resource)):
		spec.Kinds = []types.Kind{types.Kind(args.Resource)}
		spec.Explicit = args.Cloud != "all"
	default:
		return nil, fmt.Errorf("unknown resource %q", args.Resource)
	}

	switch args.Operation {
	case "delete", "":
		spec.Op = types.OpDelete
	case "stop":
		spec.Op = types.OpStop
		if args.Resource != string(types.KindVM) {
			return nil, fmt.Errorf("stop applies to vms only, got --resource %s", args.Resource)
		}
	default:
		return nil, fmt.Errorf("unknown operation %q", args.Operation)
	}

	for _, cloud := range spec.Clouds {
		if cloud == "gcp" && args.ProjectID == "" {
			return nil, fmt.Errorf("--project-id is required for gcp")
		}
		if cloud == "azure" && args.SubscriptionID == "" {
			return nil, fmt.Errorf("--subscription-id is required for azure")
		}
	}

	criteria, err := buildCriteria(args)
	if err != nil {
		return nil, err
	}
	spec.Criteria = criteria
	return spec, nil
}

func buildCriteria(args runArgs) (types.Criteria, error) {
	var c types.Criteria
	var err error

	if c.FilterTags, err = types.ParseTagSelector(args.FilterTags); err != nil {
		return c, fmt.Errorf("--filter-tags: %w", err)
	}
	if c.ExceptionTags, err = types.ParseTagSelector(args.ExceptionTags); err != nil {
		return c, fmt.Errorf("--exception-tags: %w", err)
	}
	if c.NoTags, err = types.ParseTagSelector(args.NoTags); err != nil {
		return c, fmt.Errorf("--notags: %w", err)
	}
	if c.NameRegex, err = types.ParseStringList(args.NameRegex); err != nil {
		return c, fmt.Errorf("--name-regex: %w", err)
	}
	if c.ExceptionRegex, err = types.ParseStringList(args.ExceptionRegex); err != nil {
		return c, fmt.Errorf("--exception-regex: %w", err)
	}
	if args.Age != "" {
		if c.Age, err = types.ParseThreshold(args.Age); err != nil {
			return c, fmt.Errorf("--age: %w", err)
		}
	}
	if args.DetachAge != "" {
		if c.DetachAge, err = types.ParseThreshold(args.DetachAge); err != nil {
			return c, fmt.Errorf("--detach-age: %w", err)
		}
	}
	if c.States, err = types.ParseStringList(args.States); err != nil {
		return c, fmt.Errorf("--resource-states: %w", err)
	}
	c.DryRun = args.DryRun
	return c, nil
}
