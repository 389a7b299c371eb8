// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "github.com/taibuivan/vidtube/internal/platform/apperr"

// Owned is implemented by every entity whose mutations are gated on its owner.
type Owned interface {
	OwnerID() string
}

// AuthorizeOwner allows the call only when principalID owns entity.
//
// It is a pure comparison and must run before any update or delete of an
// owned entity. A denial is [apperr.Forbidden].
func AuthorizeOwner(principalID string, entity Owned) error {
	if principalID == "" || entity == nil || entity.OwnerID() != principalID {
		return apperr.Forbidden("You are not the owner of this resource")
	}
	return nil
}
