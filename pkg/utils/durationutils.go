/*
   Copyright 2020 Docker Compose CLI authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package utils

import (
	"math"
	"time"
)

// DurationSecondToInt converts a duration into a number of seconds, rounded
// up, as expected by the engine API stop timeout. nil stays nil.
func DurationSecondToInt(d *time.Duration) *int {
	if d == nil {
		return nil
	}
	timeout := int(math.Ceil(d.Seconds()))
	return &timeout
}

// Remaining returns what is left of budget once elapsed is spent, never
// less than zero.
func Remaining(budget, elapsed time.Duration) time.Duration {
	if elapsed >= budget {
		return 0
	}
	return budget - elapsed
}
