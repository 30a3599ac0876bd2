package state

import (
	"time"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/model"
)

// #region param-record
// ParamRecord is one stored version of the model parameter bundle.
type ParamRecord struct {
	VersionID string
	ParentID  string
	Params    *model.Params
	Note      string
	CreatedAt time.Time
}

// #endregion param-record
