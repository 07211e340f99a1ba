// Package guard borne la latence des lectures : une opération est mise en
// course contre un délai et remplacée par une valeur de repli en cas d'erreur
// ou de dépassement. Aucune erreur ne remonte à l'appelant.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout s'applique quand l'appelant passe un délai nul ou négatif.
const DefaultTimeout = 5 * time.Second

// Result indique quel chemin a été pris. Value vaut toujours quelque chose
// d'exploitable : le résultat de l'opération ou la valeur de repli.
type Result[T any] struct {
	Value        T
	FallbackUsed bool
	TimedOut     bool
	Err          error
}

// Get retourne la valeur seule, pour les appelants qui n'ont pas besoin du détail.
func (r Result[T]) Get() T {
	return r.Value
}

type outcome[T any] struct {
	value T
	err   error
}

// Read lance op et attend au plus timeout. En cas d'erreur, de panique ou de
// dépassement, fallback est retourné. Le contexte passé à op est annulé au
// retour de Read : une opération abandonnée est interrompue, pas seulement ignorée.
func Read[T any](ctx context.Context, name string, timeout time.Duration, fallback T, op func(ctx context.Context) (T, error)) Result[T] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// tampon de 1 : une réponse tardive ne bloque jamais la goroutine
	done := make(chan outcome[T], 1)
	start := time.Now()

	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome[T]{err: fmt.Errorf("panic: %v", p)}
			}
		}()
		v, err := op(opCtx)
		done <- outcome[T]{value: v, err: err}
	}()

	select {
	case out := <-done:
		if out.err == nil {
			return Result[T]{Value: out.value}
		}
		timedOut := errors.Is(out.err, context.DeadlineExceeded) && opCtx.Err() != nil
		logFallback(name, out.err, timedOut, time.Since(start))
		return Result[T]{Value: fallback, FallbackUsed: true, TimedOut: timedOut, Err: out.err}

	case <-opCtx.Done():
		err := opCtx.Err()
		timedOut := errors.Is(err, context.DeadlineExceeded)
		logFallback(name, err, timedOut, time.Since(start))
		return Result[T]{Value: fallback, FallbackUsed: true, TimedOut: timedOut, Err: err}
	}
}

func logFallback(name string, err error, timedOut bool, elapsed time.Duration) {
	if timedOut {
		zap.S().Warnw("⏱️ Délai dépassé, données de repli utilisées",
			"operation", name, "elapsed", elapsed)
		return
	}
	zap.S().Warnw("⚠️ Lecture échouée, données de repli utilisées",
		"operation", name, "error", err, "elapsed", elapsed)
}
