package render

import (
	"encoding/json"
	"errors"
	"net/http"

	"lendpool/core"

	"github.com/sirupsen/logrus"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorln("render json:", err)
	}
}

// Error write error, mapping core error codes to http status
func Error(w http.ResponseWriter, err error) {
	var code core.ErrorCode
	if !errors.As(err, &code) {
		code = core.ErrUnknown
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusOf(code))

	body := H{"code": int(code), "msg": err.Error()}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorln("render error:", err)
	}
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	body := H{"code": int(core.ErrInvalidInput), "msg": err.Error()}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorln("render error:", err)
	}
}

func statusOf(code core.ErrorCode) int {
	switch code {
	case core.ErrPoolUnavailable:
		return http.StatusNotFound
	case core.ErrInvalidInput, core.ErrInvalidPoolParams:
		return http.StatusBadRequest
	case core.ErrPoolExists:
		return http.StatusConflict
	case core.ErrInsufficientLiquidity,
		core.ErrInsufficientCollateral,
		core.ErrLoanNotLiquidatable,
		core.ErrTransferFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
