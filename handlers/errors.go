package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"github.com/cenkokut62/sagaplus/pricing"
	"github.com/cenkokut62/sagaplus/services"
	"github.com/cenkokut62/sagaplus/sessions"
)

var (
	errUnauthenticated  = errors.New("authentication required")
	errBadRequest       = errors.New("bad request")
	errAlreadyFinalized = errors.New("quote already finalized")
)

// rejection maps a domain error to the status and message shown to the user.
type rejection struct {
	err     error
	status  int
	message string
	warning bool
}

var rejections = []rejection{
	{errUnauthenticated, http.StatusUnauthorized, "Oturum açmanız gerekiyor", false},
	{errBadRequest, http.StatusBadRequest, "Geçersiz istek", false},
	{sessions.ErrNotFound, http.StatusNotFound, "Teklif oturumu bulunamadı", false},
	{sql.ErrNoRows, http.StatusNotFound, "Kayıt bulunamadı", false},
	{services.ErrVisitNotOwned, http.StatusForbidden, "Bu ziyaret size ait değil", false},

	{pricing.ErrPeripheralCapExceeded, http.StatusConflict, "Kablosuz pakete en fazla 2 kablolu ürün eklenebilir", true},
	{pricing.ErrIncompatiblePeripheral, http.StatusConflict, "Bu ürün seçili hub ile uyumlu değil", true},
	{services.ErrVisitClosed, http.StatusConflict, "İptal edilmiş ziyarete teklif verilemez", true},
	{errAlreadyFinalized, http.StatusConflict, "Bu teklif zaten kaydedildi", true},

	{pricing.ErrNoPackageSelected, http.StatusUnprocessableEntity, "Önce bir paket seçin", true},
	{pricing.ErrEmptyQuote, http.StatusUnprocessableEntity, "Teklif tutarı sıfır olamaz", true},
	{pricing.ErrInvalidQuantity, http.StatusUnprocessableEntity, "Geçersiz adet", true},
	{pricing.ErrVariantUnavailable, http.StatusUnprocessableEntity, "Bu ürünün seçilen tipi satılmıyor", true},
	{pricing.ErrWrongProductLine, http.StatusUnprocessableEntity, "Ürün bu teklifin ürün hattına ait değil", true},
	{pricing.ErrNotAPackage, http.StatusUnprocessableEntity, "Seçilen ürün bir paket değil", true},
	{pricing.ErrNotAPeripheral, http.StatusUnprocessableEntity, "Seçilen ürün bir çevre birimi değil", true},
	{pricing.ErrInvalidProduct, http.StatusUnprocessableEntity, "Ürün kaydı geçersiz", true},
	{services.ErrNotVisitFlow, http.StatusUnprocessableEntity, "Teklif yalnızca bir ziyaret içinde oluşturulabilir", true},
	{services.ErrInvalidTarget, http.StatusUnprocessableEntity, "Geçersiz hedef", true},
}

// respondError renders err as a toast. Known domain errors keep their
// status; anything else is logged and reported as 500.
func respondError(e *core.RequestEvent, op string, err error) error {
	for _, r := range rejections {
		if !errors.Is(err, r.err) {
			continue
		}
		if r.warning {
			return WarningToast(e, r.status, r.message)
		}
		return ErrorToast(e, r.status, r.message)
	}

	zap.L().Error(op, zap.Error(err))
	return ErrorToast(e, http.StatusInternalServerError, "Bir hata oluştu. Lütfen tekrar deneyin.")
}
