package ogdch

import (
	"errors"
	"log/slog"
)

type TranslationHook interface {
	BeforeTranslate(ctx *TranslatorHookContext)
	AfterTranslate(ctx *TranslatorHookContext)
}

type TranslatorHookContext struct {
	Locale string
	Key    string
	Args   []any
	Result string
	Error  error
}

type TranslationHookFuncs struct {
	Before func(ctx *TranslatorHookContext)
	After  func(ctx *TranslatorHookContext)
}

func (h TranslationHookFuncs) BeforeTranslate(ctx *TranslatorHookContext) {
	if h.Before != nil {
		h.Before(ctx)
	}
}

func (h TranslationHookFuncs) AfterTranslate(ctx *TranslatorHookContext) {
	if h.After != nil {
		h.After(ctx)
	}
}

// MissingLabelLogger reports labels the catalog could not translate.
func MissingLabelLogger(logger *slog.Logger) TranslationHook {
	if logger == nil {
		return nil
	}
	return TranslationHookFuncs{
		After: func(ctx *TranslatorHookContext) {
			if errors.Is(ctx.Error, ErrMissingTranslation) {
				logger.Debug("missing label", "locale", ctx.Locale, "key", ctx.Key)
			}
		},
	}
}

var _ Translator = &HookedTranslator{}

type HookedTranslator struct {
	next  Translator
	hooks []TranslationHook
}

func WrapTranslatorWithHooks(next Translator, hooks ...TranslationHook) Translator {
	if next == nil || len(hooks) == 0 {
		return next
	}

	filtered := make([]TranslationHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		filtered = append(filtered, hook)
	}

	if len(filtered) == 0 {
		return next
	}

	return &HookedTranslator{next: next, hooks: filtered}
}

func (t *HookedTranslator) Translate(locale, key string, args ...any) (string, error) {
	if t == nil || t.next == nil {
		return "", ErrMissingTranslation
	}

	ctx := &TranslatorHookContext{
		Locale: locale,
		Key:    key,
		Args:   args,
	}

	for _, hook := range t.hooks {
		hook.BeforeTranslate(ctx)
	}

	ctx.Result, ctx.Error = t.next.Translate(ctx.Locale, ctx.Key, ctx.Args...)

	for _, hook := range t.hooks {
		hook.AfterTranslate(ctx)
	}

	return ctx.Result, ctx.Error
}
