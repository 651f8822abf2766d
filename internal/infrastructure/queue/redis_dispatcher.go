// Package queue publica los trabajos de impresión en listas Redis, una por impresora.
// Productor: LPUSH; consumidor (agente del local): BRPOP, así el orden es FIFO.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/restobar-api/internal/application/dto"
	"github.com/jhoicas/restobar-api/internal/application/printing"
)

var _ printing.PrintDispatcher = (*RedisDispatcher)(nil)

const defaultPrefix = "print:queue"

// RedisDispatcher implementa printing.PrintDispatcher.
type RedisDispatcher struct {
	rdb    *redis.Client
	prefix string
	log    zerolog.Logger
}

// NewRedisDispatcher construye el dispatcher. prefix vacío usa "print:queue".
func NewRedisDispatcher(rdb *redis.Client, prefix string, log zerolog.Logger) *RedisDispatcher {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisDispatcher{rdb: rdb, prefix: prefix, log: log.With().Str("component", "print.queue").Logger()}
}

// QueueKey lista Redis de una impresora.
func (d *RedisDispatcher) QueueKey(printerID string) string {
	return d.prefix + ":" + printerID
}

// Enqueue publica todos los trabajos en una sola transacción MULTI/EXEC.
func (d *RedisDispatcher) Enqueue(ctx context.Context, jobs []dto.QueuedPrintJob) error {
	if len(jobs) == 0 {
		return nil
	}
	encoded := make([][]byte, len(jobs))
	for i, j := range jobs {
		b, err := json.Marshal(j)
		if err != nil {
			return fmt.Errorf("serializar trabajo %s: %w", j.JobID, err)
		}
		encoded[i] = b
	}
	_, err := d.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, j := range jobs {
			pipe.LPush(ctx, d.QueueKey(j.PrinterID), encoded[i])
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("encolar trabajos de impresión: %w", err)
	}
	for _, j := range jobs {
		d.log.Debug().Str("job_id", j.JobID).Str("printer_id", j.PrinterID).Str("kind", j.Kind).Msg("trabajo encolado")
	}
	return nil
}

// Next bloquea hasta timeout esperando un trabajo. nil, nil si no llegó ninguno.
// Los mensajes ilegibles se descartan y se sigue con el siguiente de la cola.
// El deadline de ctx corta la espera si el cliente tiene ContextTimeoutEnabled.
func (d *RedisDispatcher) Next(ctx context.Context, printerID string, timeout time.Duration) (*dto.QueuedPrintJob, error) {
	key := d.QueueKey(printerID)
	deadline := time.Now().Add(timeout)
	for {
		raw, ok, err := d.pop(ctx, key, time.Until(deadline))
		if err != nil || !ok {
			return nil, err
		}
		var job dto.QueuedPrintJob
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			d.log.Error().Err(err).Str("printer_id", printerID).Msg("trabajo de impresión ilegible descartado")
			continue
		}
		return &job, nil
	}
}

// pop saca el elemento más antiguo de key. Con wait <= 0 no bloquea
// (BRPOP con 0 esperaría para siempre).
func (d *RedisDispatcher) pop(ctx context.Context, key string, wait time.Duration) (string, bool, error) {
	if wait <= 0 {
		v, err := d.rdb.RPop(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		if err != nil {
			return "", false, d.readErr(ctx, err)
		}
		return v, true, nil
	}
	res, err := d.rdb.BRPop(ctx, wait, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, d.readErr(ctx, err)
	}
	if len(res) < 2 {
		return "", false, nil
	}
	return res[1], true, nil
}

func (d *RedisDispatcher) readErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return context.DeadlineExceeded
	}
	return fmt.Errorf("leer cola de impresión: %w", err)
}

// Len cantidad de trabajos pendientes de una impresora.
func (d *RedisDispatcher) Len(ctx context.Context, printerID string) (int64, error) {
	return d.rdb.LLen(ctx, d.QueueKey(printerID)).Result()
}
