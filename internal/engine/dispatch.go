package engine

import (
	"context"
	"strconv"
	"strings"

	"github.com/Z1ni/zhttpd/internal/cgi"
	"github.com/Z1ni/zhttpd/internal/fileserver"
	"github.com/Z1ni/zhttpd/internal/httpmsg"
	"github.com/Z1ni/zhttpd/internal/pathsafe"
)

// dispatch implements spec.md §4.E's dispatch policy: validate the method,
// sanitize the path, then route to either the CGI Runner or the static
// file server depending on the request path's extension.
func (e *Engine) dispatch(ctx context.Context, req *httpmsg.Request) *httpmsg.Response {
	switch req.Method {
	case httpmsg.MethodGet, httpmsg.MethodHead, httpmsg.MethodPost:
	default:
		return e.errorResponse(501, req)
	}

	resolved, err := pathsafe.Sanitize(e.cfg.Webroot, req.Path)
	if err != nil {
		return e.errorResponse(400, req)
	}

	if isCGIPath(resolved, e.cfg.CGIExtension) {
		return e.dispatchCGI(ctx, req, resolved)
	}
	return e.dispatchStatic(req, resolved)
}

// isCGIPath reports whether resolved's final extension matches ext,
// case-insensitively (see DESIGN.md's Open Question #2 resolution).
func isCGIPath(resolved, ext string) bool {
	dot := strings.LastIndexByte(resolved, '.')
	if dot < 0 {
		return false
	}
	return strings.EqualFold(resolved[dot+1:], ext)
}

func (e *Engine) dispatchStatic(req *httpmsg.Request, resolved string) *httpmsg.Response {
	result, err := fileserver.Lookup(resolved)
	if err != nil {
		fsErr, ok := err.(*fileserver.Error)
		if !ok {
			return e.errorResponse(500, req)
		}
		switch fsErr.Kind {
		case fileserver.FailureNoEntry, fileserver.FailureIsDirectory:
			return e.errorResponse(404, req)
		case fileserver.FailureNoAccess:
			return e.errorResponse(403, req)
		default:
			return e.errorResponse(500, req)
		}
	}

	resp := httpmsg.New(200)
	resp.KeepAlive = req.KeepAlive
	resp.Method = req.Method
	if req.Method == httpmsg.MethodHead {
		resp.HeadElision = true
	}
	resp.SetContent(result.Body, nil)
	resp.AddHeader("Content-Type", fileserver.ContentType(result.Path, result.Body, e.detect))
	return resp
}

func (e *Engine) dispatchCGI(ctx context.Context, req *httpmsg.Request, resolved string) *httpmsg.Response {
	result, err := cgi.Run(ctx, cgi.Params{
		Request:         req,
		ScriptPath:      resolved,
		InterpreterPath: e.cfg.CGIInterpreterPath,
		Webroot:         e.cfg.Webroot,
		ServerSoftware:  e.cfg.ServerIdent,
		ServerPort:      strconv.Itoa(e.cfg.ListenPort),
		ReadTimeout:     e.cfg.CGIReadTimeout,
	})
	if err != nil {
		cgiErr, ok := err.(*cgi.Error)
		if !ok {
			return e.errorResponse(500, req)
		}
		switch cgiErr.Kind {
		case cgi.FailureScriptPathInvalid:
			return e.errorResponse(404, req)
		default:
			return e.errorResponse(500, req)
		}
	}

	status := 200
	if code, ok := cgi.StatusOverride(result.Headers); ok {
		status = code
	} else if result.NonZero {
		status = 500
	}

	resp := httpmsg.New(status)
	resp.KeepAlive = req.KeepAlive
	resp.Method = req.Method
	if req.Method == httpmsg.MethodHead {
		resp.HeadElision = true
	}

	contentType, hasContentType := result.Headers.Get("Content-Type")
	for _, h := range result.Headers {
		if strings.EqualFold(h.Name, "Status") || strings.EqualFold(h.Name, "Content-Type") {
			continue
		}
		resp.AddHeader(h.Name, h.Value)
	}

	if hasContentType {
		resp.SetContent(result.Body, nil)
		resp.AddHeader("Content-Type", contentType)
	} else {
		resp.SetContent(result.Body, e.detect)
	}
	return resp
}

// errorResponse builds a canned error response for status, reusing the
// request's connection-lifecycle fields where a Request is available.
func (e *Engine) errorResponse(status int, req *httpmsg.Request) *httpmsg.Response {
	resp := httpmsg.New(status)
	if req != nil {
		resp.KeepAlive = req.KeepAlive
		resp.Method = req.Method
		if req.Method == httpmsg.MethodHead {
			resp.HeadElision = true
		}
	}
	return resp
}
