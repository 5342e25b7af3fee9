package usecase

// RemoveResult resultado explícito de un borrado: físico o desactivación.
// La política es la misma para productos y bodegas: con historial de
// movimientos nunca se borra físicamente, se desactiva para preservar el
// libro; sin historial se borra junto con sus saldos.
type RemoveResult string

const (
	RemoveDeleted     RemoveResult = "DELETED"
	RemoveDeactivated RemoveResult = "DEACTIVATED"
)

// RemoveReasonHasHistory razón de la desactivación.
const RemoveReasonHasHistory = "HAS_HISTORY"

// RemoveOutcome resultado del borrado con su razón (vacía en borrado físico).
type RemoveOutcome struct {
	Result RemoveResult
	Reason string
}
