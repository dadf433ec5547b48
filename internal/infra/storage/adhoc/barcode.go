package adhoc

import (
	"strings"

	"github.com/google/uuid"
)

// newBarcode генерирует штрихкод билета: "A" + 32 hex-символа UUID
func newBarcode() string {
	return "A" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
