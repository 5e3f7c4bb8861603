package ogdch

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type recordingHook struct {
	beforeCalls int
	afterCalls  int
	lastErr     error
	lastResult  string
}

func (h *recordingHook) BeforeTranslate(ctx *TranslatorHookContext) {
	h.beforeCalls++
}

func (h *recordingHook) AfterTranslate(ctx *TranslatorHookContext) {
	h.afterCalls++
	h.lastErr = ctx.Error
	h.lastResult = ctx.Result
}

func TestWrapTranslatorWithHooks(t *testing.T) {
	base := newTestTranslator(t)

	recorder := &recordingHook{}
	translator := WrapTranslatorWithHooks(base, recorder)

	got, err := translator.Translate("de", "terms.open")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	if got != "Freie Nutzung" {
		t.Fatalf("Translate() = %q want Freie Nutzung", got)
	}

	if recorder.beforeCalls != 1 || recorder.afterCalls != 1 {
		t.Fatalf("unexpected hook counts before=%d after=%d", recorder.beforeCalls, recorder.afterCalls)
	}

	if recorder.lastErr != nil {
		t.Fatalf("expected nil error in hook, got %v", recorder.lastErr)
	}

	if recorder.lastResult != "Freie Nutzung" {
		t.Fatalf("expected hook result, got %q", recorder.lastResult)
	}
}

func TestWrapTranslatorWithHooksError(t *testing.T) {
	base := newTestTranslator(t)

	recorder := &recordingHook{}
	translator := WrapTranslatorWithHooks(base, recorder)

	_, err := translator.Translate("en", "missing")
	if !errors.Is(err, ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}
	if !errors.Is(recorder.lastErr, ErrMissingTranslation) {
		t.Fatalf("hook saw %v", recorder.lastErr)
	}
}

func TestWrapTranslatorWithoutHooks(t *testing.T) {
	base := newTestTranslator(t)

	if got := WrapTranslatorWithHooks(base); got != Translator(base) {
		t.Fatal("expected base translator when no hooks are given")
	}
	if got := WrapTranslatorWithHooks(base, nil); got != Translator(base) {
		t.Fatal("expected base translator when only nil hooks are given")
	}
}

func TestTranslationHookFuncsCanRewriteLocale(t *testing.T) {
	base := newTestTranslator(t)

	translator := WrapTranslatorWithHooks(base, TranslationHookFuncs{
		Before: func(ctx *TranslatorHookContext) {
			if ctx.Locale == "rm" {
				ctx.Locale = "de"
			}
		},
	})

	got, err := translator.Translate("rm", "terms.open")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "Freie Nutzung" {
		t.Fatalf("Translate = %q", got)
	}
}

func TestMissingLabelLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	translator := WrapTranslatorWithHooks(newTestTranslator(t), MissingLabelLogger(logger))

	if _, err := translator.Translate("fr", "terms.open"); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected log output %q", buf.String())
	}

	_, _ = translator.Translate("fr", "facet.unknown")
	if !strings.Contains(buf.String(), "missing label") || !strings.Contains(buf.String(), "facet.unknown") {
		t.Fatalf("expected missing label log, got %q", buf.String())
	}

	if MissingLabelLogger(nil) != nil {
		t.Fatal("expected nil hook for nil logger")
	}
}
