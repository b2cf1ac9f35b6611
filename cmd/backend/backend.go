// Copyright 2018 Fabian Wenzelmann
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

// Command backend runs the JSON over HTTP mosaic backend.
package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/MattFrayser/image-mosaic-generator/web"

	log "github.com/sirupsen/logrus"
)

func main() {
	addr := flag.String("addr", ":8085", "Address to listen on")
	maxAge := flag.Duration("max-age", time.Hour, "Drop connections idle for longer than this")
	flag.Parse()

	memStorage := web.NewMemStorage()
	context := web.NewContext(memStorage)
	web.DefaultHandlers(context, nil)

	// drop expired connections in the background
	go func() {
		for range time.Tick(*maxAge / 2) {
			if err := memStorage.Filter(*maxAge); err != nil {
				log.WithError(err).Error("Can't filter connections")
			}
		}
	}()

	log.WithField("addr", *addr).Info("Starting mosaic backend")
	log.Fatal(http.ListenAndServe(*addr, nil))
}
