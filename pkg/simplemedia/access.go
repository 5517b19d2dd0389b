package simplemedia

import (
	"context"
	"errors"
	"fmt"
)

// Operation is an operation requested on an entity.
type Operation string

const (
	OperationView   Operation = "view"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Permissions checked by the built-in policies.
const (
	PermissionAdministerMediaFields = "administer media fields"
	PermissionAdministerMediaTypes  = "administer media types"
)

// CreateMediaPermission returns the permission to create media of a type.
func CreateMediaPermission(typeID string) string {
	return "create " + typeID + " media"
}

// Actor is the account an access decision is made for.
type Actor struct {
	ID          string
	Permissions []string
}

// AnonymousActor is an actor without any permissions.
var AnonymousActor = Actor{ID: "anonymous"}

// HasPermission reports whether the actor holds the permission.
func (a Actor) HasPermission(permission string) bool {
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// AccessKind is the outcome of a single access policy.
type AccessKind int

const (
	AccessNeutral AccessKind = iota
	AccessAllowed
	AccessForbidden
)

func (k AccessKind) String() string {
	switch k {
	case AccessAllowed:
		return "allowed"
	case AccessForbidden:
		return "forbidden"
	default:
		return "neutral"
	}
}

// AccessResult is an access decision with an optional reason.
type AccessResult struct {
	Kind   AccessKind
	Reason string
}

// Neutral returns a result that defers to other policies.
func Neutral() AccessResult { return AccessResult{Kind: AccessNeutral} }

// Allowed returns an explicit allow.
func Allowed() AccessResult { return AccessResult{Kind: AccessAllowed} }

// Forbidden returns an explicit deny.
func Forbidden(reason string) AccessResult {
	return AccessResult{Kind: AccessForbidden, Reason: reason}
}

func (r AccessResult) IsAllowed() bool   { return r.Kind == AccessAllowed }
func (r AccessResult) IsForbidden() bool { return r.Kind == AccessForbidden }
func (r AccessResult) IsNeutral() bool   { return r.Kind == AccessNeutral }

// Combine merges policy results: any Forbidden wins, otherwise the first
// Allowed wins, otherwise access is denied.
func Combine(results ...AccessResult) AccessResult {
	var allowed *AccessResult
	for i := range results {
		switch results[i].Kind {
		case AccessForbidden:
			return results[i]
		case AccessAllowed:
			if allowed == nil {
				allowed = &results[i]
			}
		}
	}
	if allowed != nil {
		return *allowed
	}
	return Forbidden("no policy allowed the operation")
}

// AccessPolicy decides on operations against field configs.
type AccessPolicy interface {
	CheckFieldConfigAccess(ctx context.Context, field *FieldConfig, op Operation, actor Actor) (AccessResult, error)
}

// AccessPolicyFunc adapts a function to an AccessPolicy.
type AccessPolicyFunc func(ctx context.Context, field *FieldConfig, op Operation, actor Actor) (AccessResult, error)

func (f AccessPolicyFunc) CheckFieldConfigAccess(ctx context.Context, field *FieldConfig, op Operation, actor Actor) (AccessResult, error) {
	return f(ctx, field, op, actor)
}

// SourceFieldPolicy forbids deleting the source field of a media type. It
// never grants access on its own.
type SourceFieldPolicy struct {
	registry TypeRegistry
}

// NewSourceFieldPolicy creates the policy over a type registry.
func NewSourceFieldPolicy(registry TypeRegistry) *SourceFieldPolicy {
	return &SourceFieldPolicy{registry: registry}
}

func (p *SourceFieldPolicy) CheckFieldConfigAccess(ctx context.Context, field *FieldConfig, op Operation, actor Actor) (AccessResult, error) {
	if op != OperationDelete || field.TargetEntityType != MediaEntityType {
		return Neutral(), nil
	}

	mediaType, err := p.registry.LookupMediaType(ctx, field.TargetBundle)
	if err != nil {
		if errors.Is(err, ErrMediaTypeNotFound) {
			return AccessResult{}, &IntegrityError{FieldID: field.ID, Bundle: field.TargetBundle, Err: err}
		}
		return AccessResult{}, fmt.Errorf("lookup media type %s: %w", field.TargetBundle, err)
	}
	if mediaType.Source == nil {
		return AccessResult{}, &IntegrityError{FieldID: field.ID, Bundle: field.TargetBundle, Err: ErrMissingSource}
	}

	if field.ID == mediaType.SourceFieldID() {
		return Forbidden(fmt.Sprintf("%s is the source field of media type %s", field.ID, mediaType.ID)), nil
	}
	return Neutral(), nil
}

// CanDelete evaluates deletion of a field config against the source field
// policy alone.
func CanDelete(ctx context.Context, registry TypeRegistry, field *FieldConfig, actor Actor) (AccessResult, error) {
	return NewSourceFieldPolicy(registry).CheckFieldConfigAccess(ctx, field, OperationDelete, actor)
}

// PermissionPolicy allows field config operations on media fields to actors
// holding the "administer media fields" permission.
type PermissionPolicy struct{}

func (PermissionPolicy) CheckFieldConfigAccess(ctx context.Context, field *FieldConfig, op Operation, actor Actor) (AccessResult, error) {
	if field.TargetEntityType == MediaEntityType && actor.HasPermission(PermissionAdministerMediaFields) {
		return Allowed(), nil
	}
	return Neutral(), nil
}

// AccessChecker runs a set of policies and combines their results.
type AccessChecker struct {
	policies []AccessPolicy
}

// NewAccessChecker creates a checker over the given policies.
func NewAccessChecker(policies ...AccessPolicy) *AccessChecker {
	return &AccessChecker{policies: policies}
}

// Check evaluates every policy. The first policy error aborts the evaluation.
func (c *AccessChecker) Check(ctx context.Context, field *FieldConfig, op Operation, actor Actor) (AccessResult, error) {
	results := make([]AccessResult, 0, len(c.policies))
	for _, policy := range c.policies {
		result, err := policy.CheckFieldConfigAccess(ctx, field, op, actor)
		if err != nil {
			return AccessResult{}, err
		}
		results = append(results, result)
	}
	return Combine(results...), nil
}
