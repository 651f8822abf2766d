package printing

import (
	"context"
	"time"

	"github.com/jhoicas/restobar-api/internal/application/dto"
)

// PrintDispatcher cola de trabajos por impresora. El agente del local consume con Next.
type PrintDispatcher interface {
	// Enqueue publica todos los trabajos o ninguno.
	Enqueue(ctx context.Context, jobs []dto.QueuedPrintJob) error
	// Next espera hasta timeout el siguiente trabajo de la impresora; nil si no hay.
	Next(ctx context.Context, printerID string, timeout time.Duration) (*dto.QueuedPrintJob, error)
}
