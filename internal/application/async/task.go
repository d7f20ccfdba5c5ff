// Package async modela operaciones que terminan más tarde (login, signup) sin bloquear
// a quien las inicia. Un Scheduler decide cuándo corre el trabajo: Immediate lo ejecuta
// en línea (tests), Delayed espera una latencia configurada.
package async

import (
	"context"
	"time"
)

// Scheduler ejecuta job en algún momento. job recibe el contexto con el que se programó.
type Scheduler interface {
	Schedule(ctx context.Context, job func(ctx context.Context))
}

// Immediate ejecuta el trabajo antes de devolver.
type Immediate struct{}

func (Immediate) Schedule(ctx context.Context, job func(ctx context.Context)) {
	job(ctx)
}

// Delayed ejecuta el trabajo en una goroutine tras Latency. Si ctx se cancela antes,
// el trabajo corre igual con el contexto cancelado para que pueda reportar el error.
type Delayed struct {
	Latency time.Duration
}

func (d Delayed) Schedule(ctx context.Context, job func(ctx context.Context)) {
	go func() {
		if d.Latency > 0 {
			timer := time.NewTimer(d.Latency)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
			}
		}
		job(ctx)
	}()
}

// SchedulerFor devuelve Immediate para latencia cero y Delayed en otro caso.
func SchedulerFor(latency time.Duration) Scheduler {
	if latency <= 0 {
		return Immediate{}
	}
	return Delayed{Latency: latency}
}

// Task resultado futuro de una operación.
type Task[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Start programa fn en s y devuelve la tarea asociada.
func Start[T any](ctx context.Context, s Scheduler, fn func(ctx context.Context) (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	s.Schedule(ctx, func(ctx context.Context) {
		defer close(t.done)
		if err := ctx.Err(); err != nil {
			t.err = err
			return
		}
		t.value, t.err = fn(ctx)
	})
	return t
}

// Done se cierra cuando la tarea termina.
func (t *Task[T]) Done() <-chan struct{} { return t.done }

// Pending indica si la tarea sigue en curso.
func (t *Task[T]) Pending() bool {
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Await espera el resultado. Si ctx se cancela primero devuelve ctx.Err(); la tarea sigue su curso.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
