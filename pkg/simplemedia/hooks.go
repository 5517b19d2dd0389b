package simplemedia

import (
	"context"

	"github.com/google/uuid"
)

// Hooks allow extending media behavior at fixed points of the lifecycle.
type Hooks struct {
	AfterMediaTypeCreate    []AfterMediaTypeCreateHook
	BeforeFieldConfigDelete []BeforeFieldConfigDeleteHook
	AfterMediaItemDelete    []AfterMediaItemDeleteHook

	OnError []ErrorHook
}

// HookContext carries information through the hook chain
type HookContext struct {
	Context   context.Context
	Metadata  map[string]interface{}
	StopChain bool // stops processing of the remaining hooks
}

// NewHookContext creates a new hook context
func NewHookContext(ctx context.Context) *HookContext {
	return &HookContext{
		Context:  ctx,
		Metadata: make(map[string]interface{}),
	}
}

// AfterMediaTypeCreateHook is called after a media type and its source field are created
type AfterMediaTypeCreateHook func(hctx *HookContext, mediaType *MediaType) error

// BeforeFieldConfigDeleteHook is called after access was granted and before the field is deleted.
// Returning an error aborts the deletion.
type BeforeFieldConfigDeleteHook func(hctx *HookContext, field *FieldConfig, actor Actor) error

// AfterMediaItemDeleteHook is called after a media item is deleted
type AfterMediaItemDeleteHook func(hctx *HookContext, id uuid.UUID) error

// ErrorHook is called when an operation fails
type ErrorHook func(hctx *HookContext, operation string, err error)

func (h *Hooks) executeAfterMediaTypeCreate(ctx context.Context, mediaType *MediaType) error {
	if h == nil || len(h.AfterMediaTypeCreate) == 0 {
		return nil
	}

	hctx := NewHookContext(ctx)
	for _, hook := range h.AfterMediaTypeCreate {
		if err := hook(hctx, mediaType); err != nil {
			return err
		}
		if hctx.StopChain {
			break
		}
	}
	return nil
}

func (h *Hooks) executeBeforeFieldConfigDelete(ctx context.Context, field *FieldConfig, actor Actor) error {
	if h == nil || len(h.BeforeFieldConfigDelete) == 0 {
		return nil
	}

	hctx := NewHookContext(ctx)
	for _, hook := range h.BeforeFieldConfigDelete {
		if err := hook(hctx, field, actor); err != nil {
			return err
		}
		if hctx.StopChain {
			break
		}
	}
	return nil
}

func (h *Hooks) executeAfterMediaItemDelete(ctx context.Context, id uuid.UUID) error {
	if h == nil || len(h.AfterMediaItemDelete) == 0 {
		return nil
	}

	hctx := NewHookContext(ctx)
	for _, hook := range h.AfterMediaItemDelete {
		if err := hook(hctx, id); err != nil {
			return err
		}
		if hctx.StopChain {
			break
		}
	}
	return nil
}

func (h *Hooks) executeOnError(ctx context.Context, operation string, err error) {
	if h == nil || len(h.OnError) == 0 {
		return
	}

	hctx := NewHookContext(ctx)
	for _, hook := range h.OnError {
		hook(hctx, operation, err)
		if hctx.StopChain {
			break
		}
	}
}
