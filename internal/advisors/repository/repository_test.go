package repository

import (
	"reflect"
	"testing"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func TestBuildTargetingSet_EmptyUpdateProducesNoClauses(t *testing.T) {
	setClauses, args := buildTargetingSet(TargetingUpdate{})
	if len(setClauses) != 0 {
		t.Fatalf("expected no SET clauses, got %v", setClauses)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestBuildTargetingSet_OnlyFlaggedFieldsAppear(t *testing.T) {
	update := TargetingUpdate{
		MinAssets:    int64Ptr(100000),
		MinAssetsSet: true,
		MaxAge:       intPtr(60),
		MaxAgeSet:    true,
	}

	setClauses, args := buildTargetingSet(update)
	expected := []string{"min_assets = $1", "max_age = $2"}
	if !reflect.DeepEqual(setClauses, expected) {
		t.Fatalf("expected clauses %v, got %v", expected, setClauses)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %v", args)
	}
	if *(args[0].(*int64)) != 100000 {
		t.Fatalf("expected min_assets arg 100000, got %v", args[0])
	}
	if *(args[1].(*int)) != 60 {
		t.Fatalf("expected max_age arg 60, got %v", args[1])
	}
}

func TestBuildTargetingSet_NilWithFlagClearsBound(t *testing.T) {
	update := TargetingUpdate{
		MaxAssets:    nil,
		MaxAssetsSet: true,
	}

	setClauses, args := buildTargetingSet(update)
	if len(setClauses) != 1 || setClauses[0] != "max_assets = $1" {
		t.Fatalf("expected single max_assets clause, got %v", setClauses)
	}
	if args[0].(*int64) != nil {
		t.Fatalf("expected nil arg to null the bound, got %v", args[0])
	}
}

func TestBuildTargetingSet_ListFieldsKeyOffNilNotEmpty(t *testing.T) {
	setClauses, _ := buildTargetingSet(TargetingUpdate{TargetStates: []string{}})
	if len(setClauses) != 1 || setClauses[0] != "target_states = $1" {
		t.Fatalf("expected empty slice to clear target_states, got %v", setClauses)
	}

	setClauses, _ = buildTargetingSet(TargetingUpdate{TargetGoals: []string{"retirement planning"}})
	if len(setClauses) != 1 || setClauses[0] != "target_goals = $1" {
		t.Fatalf("expected target_goals clause, got %v", setClauses)
	}
}

func TestBuildTargetingSet_PlaceholdersStaySequential(t *testing.T) {
	update := TargetingUpdate{
		MinAssetsSet: true,
		MaxAssetsSet: true,
		MinAgeSet:    true,
		MaxAgeSet:    true,
		TargetStates: []string{"CA"},
		TargetGoals:  []string{"tax planning"},
	}

	setClauses, args := buildTargetingSet(update)
	expected := []string{
		"min_assets = $1",
		"max_assets = $2",
		"min_age = $3",
		"max_age = $4",
		"target_states = $5",
		"target_goals = $6",
	}
	if !reflect.DeepEqual(setClauses, expected) {
		t.Fatalf("expected clauses %v, got %v", expected, setClauses)
	}
	if len(args) != 6 {
		t.Fatalf("expected 6 args, got %d", len(args))
	}
}
