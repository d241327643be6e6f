// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command hello greets on the terminal or over HTTP. Its command line is
// declared with struct tags.
package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/yeetrun/argp/pkg/argp"
)

type helloFlags struct {
	Verbose bool `flag:"verbose" short:"v" global:"true" help:"Log what hello is doing."`

	Say   *sayCmd   `cmd:"say" required:"true" help:"Print a greeting."`
	Serve *serveCmd `cmd:"serve" aliases:"http" help:"Serve greetings over HTTP."`
}

type sayCmd struct {
	Count    int           `flag:"count" short:"n" default:"1" help:"Greet this many times; 0 greets forever."`
	Interval time.Duration `flag:"interval" default:"2s" help:"Pause between greetings."`
	Name     string        `pos:"0" default:"World" help:"Who to greet."`
}

type serveCmd struct {
	Port argp.Port `flag:"port" short:"p" port:"1024-65535" default:"8080" help:"Port to listen on."`
	Env  bool      `flag:"env" help:"Expose the process environment at /env."`
}

func main() {
	log.SetFlags(0)
	flags, o, err := argp.ParseStruct[helloFlags]("hello", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if flags == nil {
		r := &argp.Reporter{Stdout: os.Stdout, Stderr: os.Stderr, Color: argp.ColorEnabled(os.Stderr)}
		os.Exit(r.Report(o))
	}
	if !flags.Verbose {
		log.SetOutput(io.Discard)
	}

	switch {
	case flags.Say != nil:
		say(os.Stdout, flags.Say, time.Sleep)
	case flags.Serve != nil:
		addr := fmt.Sprintf(":%d", flags.Serve.Port)
		log.Printf("listening on %s", addr)
		log.SetOutput(os.Stderr)
		log.Fatal(http.ListenAndServe(addr, handler(flags.Serve.Env)))
	}
}

func say(w io.Writer, c *sayCmd, sleep func(time.Duration)) {
	for i := 0; c.Count <= 0 || i < c.Count; i++ {
		if i > 0 {
			sleep(c.Interval)
		}
		log.Printf("greeting %d", i+1)
		fmt.Fprintf(w, "Hello, %s!\n", c.Name)
	}
}

func handler(env bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env && r.URL.Path == "/env" {
			fmt.Fprintln(w, os.Environ())
			return
		}
		fmt.Fprintln(w, "Hello, world!")
	})
}
