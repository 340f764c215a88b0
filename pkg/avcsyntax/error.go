// Copyright 2024, txsim authors. All rights reserved.
// https://github.com/mnaccari/txsim
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.

package avcsyntax

import "errors"

// ErrShortPayload is returned when a coded-slice NAL unit is too short to
// even contain its NAL header byte plus one bit of slice header.
var ErrShortPayload = errors.New("txsim.avcsyntax: nalu payload too short to decode slice type")
