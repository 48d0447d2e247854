package planner

import (
	"net/http"

	"github.com/viajeia/viajeia/internal/common/apperrors"
)

// The error taxonomy of the client. Validation errors are detected locally
// and never reach the network. Transport errors carry fixed user-facing
// messages per operation; recovery is user-driven, there is no retry.
var (
	ErrValidation apperrors.Error = apperrors.New("solicitud inválida").SetStatusCode(http.StatusBadRequest)
	ErrTransport  apperrors.Error = apperrors.New("error de conexión").SetStatusCode(http.StatusBadGateway)

	// ErrPlanInFlight rejects a submission while another one holds the
	// single in-flight slot.
	ErrPlanInFlight = ErrValidation.New("Ya hay una consulta en curso. Espera la respuesta actual.")

	// ErrMissingDestination rejects save-favorite when neither the history
	// nor the survey names a destination.
	ErrMissingDestination = ErrValidation.New("Indica un destino antes de guardarlo en favoritos.")

	// ErrNothingToExport signals that export has no session or no history
	// yet. Interactive surfaces treat it as a silent no-op.
	ErrNothingToExport = ErrValidation.New("Aún no hay una conversación para exportar.")

	// ErrExportInProgress signals that a download is already running.
	// Interactive surfaces treat it as a silent no-op.
	ErrExportInProgress = ErrValidation.New("Ya hay una descarga en curso.")

	ErrPlanFailed     = ErrTransport.New("No pudimos obtener una respuesta. Inténtalo de nuevo.")
	ErrFavoriteFailed = ErrTransport.New("No pudimos guardar este destino. Inténtalo de nuevo.")
	ErrExportFailed   = ErrTransport.New("No pudimos generar el PDF. Inténtalo de nuevo.")
)
