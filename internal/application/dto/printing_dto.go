package dto

import "time"

// PrintJobDTO trabajo de impresión sin payload (para respuestas).
type PrintJobDTO struct {
	JobID     string `json:"job_id"`
	Kind      string `json:"kind"`
	PrinterID string `json:"printer_id"`
	Label     string `json:"label"`
	Bytes     int    `json:"bytes"`
}

// PrintOrderResponse resultado de POST /api/orders/:id/print.
type PrintOrderResponse struct {
	OrderID    string        `json:"order_id"`
	Jobs       []PrintJobDTO `json:"jobs"`
	Dispatched bool          `json:"dispatched"`
}

// QueuedPrintJob sobre que viaja por la cola de impresión y que consume el agente del local.
// Payload se serializa en base64.
type QueuedPrintJob struct {
	JobID      string    `json:"job_id"`
	BranchID   string    `json:"branch_id"`
	OrderID    string    `json:"order_id"`
	Kind       string    `json:"kind"`
	PrinterID  string    `json:"printer_id"`
	Label      string    `json:"label"`
	Payload    []byte    `json:"payload"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
