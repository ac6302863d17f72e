// Package pkg provides the core libraries for algotrace algorithm playback.
//
// # Overview
//
// Algotrace turns the frame-by-frame traces computed by the trace service
// into narrated step-by-step playback. The pkg directory is organized into
// four main areas:
//
//  1. Domain logic ([algo], [instance], [validate], [layout], [narrate], [trace])
//  2. Playback ([playback], [session])
//  3. Infrastructure ([cache], [config], [traceclient], [httputil], [observability])
//  4. Surfaces ([pipeline], [server], [render/nodelink])
//
// # Architecture
//
// The typical data flow through algotrace:
//
//	raw input (flags, file or JSON body)
//	         ↓
//	    [validate] package (problem instance)
//	         ↓
//	    [layout] package (node positions for graphs and trees)
//	         ↓
//	    [traceclient] package (trace from the service, cached)
//	         ↓
//	    [playback] package (timed frames + [narrate] text)
//	         ↓
//	    terminal player, websocket stream or HTTP snapshot
//
// # Quick Start
//
// Validate an instance and play its trace:
//
//	import (
//	    "github.com/matzehuels/algotrace/pkg/playback"
//	    "github.com/matzehuels/algotrace/pkg/traceclient"
//	    "github.com/matzehuels/algotrace/pkg/validate"
//	)
//
//	inst, err := validate.Validate("bubble", validate.Input{Array: "5, 3, 8"})
//	if err != nil {
//	    return err
//	}
//	client, _ := traceclient.New(traceclient.Options{})
//	ctrl := playback.New(client, playback.Options{
//	    Renderer: playback.RendererFunc(func(u playback.Update) {
//	        fmt.Println(u.Narration)
//	    }),
//	})
//	err = ctrl.Play(ctx, inst)
//
// # Error Handling
//
// All packages return [errors.Error] values carrying a stable code such as
// INVALID_NUMBER or TIMEOUT. Use [errors.Is] to branch on the code and
// [errors.UserMessage] for text safe to show end users.
package pkg
