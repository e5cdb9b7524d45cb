// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wait

import (
	"context"

	"github.com/packetd/ptzd/internal/rescue"
)

// Until 循环执行 f 直到 ctx 结束
//
// f 正常返回或者发生 panic 后 只要 ctx 未结束就会重新执行
func Until(ctx context.Context, routine string, f func()) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			defer rescue.HandleCrash(routine)
			f()
		}()
	}
}
