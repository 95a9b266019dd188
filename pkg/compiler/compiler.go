// Package compiler provides public access to the stages of the hierarchical
// query rewrite.
//
// This is a thin wrapper around internal/sqlgen that exposes only the types
// and functions needed by external consumers who want to drive the stages
// themselves. Most callers should use the root hiercte package instead.
package compiler

import (
	"github.com/pthm/hiercte/internal/sqlgen"
	"github.com/pthm/hiercte/internal/sqlgen/analysis"
)

// Options controls the generated SQL.
type Options = sqlgen.Options

// Output is a rendered conversion with its diagnostics.
type Output = sqlgen.Output

// HierarchyInput is everything needed to plan one hierarchical query.
type HierarchyInput = sqlgen.HierarchyInput

// HierarchyPlan is the structured form of a recursive CTE before rendering.
type HierarchyPlan = sqlgen.HierarchyPlan

// JoinKey is one child/parent column pair of the recursion join.
type JoinKey = analysis.JoinKey

// Columns is a classified select list.
type Columns = analysis.Columns

// Column is one classified select-list item.
type Column = analysis.Column

// ErrUnresolvedJoin is returned by InferJoin when the CONNECT BY predicate
// is not a conjunction of PRIOR equalities.
var ErrUnresolvedJoin = analysis.ErrUnresolvedJoin

// InferJoin derives the recursion join keys from a CONNECT BY predicate.
var InferJoin = analysis.InferJoin

// ClassifyColumns classifies a select list and picks its depth column.
var ClassifyColumns = analysis.ClassifyColumns

// BuildHierarchyPlan plans the recursive CTE without rendering it.
var BuildHierarchyPlan = sqlgen.BuildHierarchyPlan

// RenderHierarchy renders a plan as a WITH RECURSIVE statement.
var RenderHierarchy = sqlgen.RenderHierarchy

// Assemble plans, validates and renders the recursive CTE.
var Assemble = sqlgen.Assemble

// BuildSequence renders a row-sequence generator.
var BuildSequence = sqlgen.BuildSequence

// NeedsDepth reports whether a query needs a depth column in its CTE.
var NeedsDepth = sqlgen.NeedsDepth

// NoteSequence is attached to row-sequence generator conversions.
const NoteSequence = sqlgen.NoteSequence
