// Copyright ©️ Veridiff contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/veridiff/veridiff/pkg/serve"
)

type HTTPD struct {
	Config string `short:"c" name:"config" help:"Location of server config file" type:"path"`
}

func (c *HTTPD) Run(globals *Globals) error {
	sc, err := serve.NewServerConfig(c.Config)
	if err != nil {
		logrus.Errorf("veridiff-serve httpd load server config error: %v", err)
		return err
	}
	srv, err := serve.NewServer(sc)
	if err != nil {
		logrus.Errorf("veridiff-serve httpd new httpd server error: %v", err)
		return err
	}
	closer := newCloser()
	go closer.listenSignal(context.Background(), srv)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.Errorf("veridiff-serve httpd listen server error: %v", err)
		return err
	}
	<-closer.ch
	logrus.Infof("veridiff-serve httpd exited")
	return nil
}
