// Copyright 2025 Appalti
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunk

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// Checksum returns the BLAKE2b-256 digest of data, hex-encoded.
// The digest is deterministic; empty input is valid and yields the
// digest of the empty string.
func Checksum(data []byte) string {
	h, _ := blake2b.New(32, nil) // 32 bytes = 256 bits
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ChecksumString returns the checksum of a string's bytes.
func ChecksumString(s string) string {
	return Checksum([]byte(s))
}
