// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
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
package httpfabric

import "math/rand"

// browserWeight pairs a User-Agent template family with its share of the
// weighted distribution.
type browserWeight struct {
	name   string
	weight int
	ua     string
}

var operatingSystems = []string{
	"Windows NT 10.0; Win64; x64",
	"Macintosh; Intel Mac OS X 10_15_7",
	"X11; Linux x86_64",
	"Windows NT 11.0; Win64; x64",
}

var browserTable = []browserWeight{
	{"chrome", 40, "Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"},
	{"firefox", 15, "Mozilla/5.0 (%s; rv:126.0) Gecko/20100101 Firefox/126.0"},
	{"edge", 10, "Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36 Edg/125.0.0.0"},
	{"safari-desktop", 5, "Mozilla/5.0 (%s) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"},
	{"safari-mobile", 5, "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1"},
	{"samsung", 5, "Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) SamsungBrowser/25.0 Chrome/115.0.0.0 Safari/537.36"},
	{"opera", 5, "Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36 OPR/110.0.0.0"},
	{"brave", 5, "Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36 Brave/125"},
	{"vivaldi", 5, "Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36 Vivaldi/6.7"},
	{"chrome-fallback", 5, "Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"},
}

var totalWeight = func() int {
	t := 0
	for _, b := range browserTable {
		t += b.weight
	}
	return t
}()

// randomUserAgent draws one User-Agent string from the weighted OS x
// browser-version table above.
func randomUserAgent() string {
	pick := rand.Intn(totalWeight)
	for _, b := range browserTable {
		if pick < b.weight {
			if b.name == "safari-mobile" {
				return b.ua
			}
			os := operatingSystems[rand.Intn(len(operatingSystems))]
			return sprintfUA(b.ua, os)
		}
		pick -= b.weight
	}
	return browserTable[0].ua
}

func sprintfUA(template, os string) string {
	out := make([]byte, 0, len(template)+len(os))
	for i := 0; i < len(template); i++ {
		if template[i] == '%' && i+1 < len(template) && template[i+1] == 's' {
			out = append(out, os...)
			i++
			continue
		}
		out = append(out, template[i])
	}
	return string(out)
}
