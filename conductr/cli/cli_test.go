package cli

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twitter/conduct/common"
	errs "github.com/twitter/conduct/common/errors"
	"github.com/twitter/conduct/conductr/client"
	"github.com/twitter/conduct/config"
	"github.com/twitter/conduct/shazar"
)

const bundlesJSON = `[
{"bundleId":"45e0c477d3e5ea92aa8d85c0d8f3e25c-c52e3f8d0c58d8aa29ae5e3d774c0e54",
 "attributes":{"bundleName":"visualizer"},
 "bundleConfig":{"endpoints":{
   "web":{"services":["http://:80/visualizer"]},
   "admin":{"services":["http://:80/shared"]}}},
 "bundleInstallations":[{"uniqueAddress":{"address":"akka://conductr@10.0.0.1","uid":1},"bundleFile":"file:///tmp/v.tgz"}],
 "bundleExecutions":[{"host":"10.0.0.1","isStarted":true}]},
{"bundleId":"c52e3f8d0c58d8aa29ae5e3d774c0e54",
 "attributes":{"bundleName":"cassandra"},
 "bundleConfig":{"endpoints":{
   "cql":{"services":["tcp://:9042/cassandra"]},
   "shared":{"services":["http://:80/shared"]}}},
 "bundleInstallations":[],
 "bundleExecutions":[{"host":"10.0.0.2","isStarted":false}]}
]`

// conductor starts a fake conductor and returns the flags that point conduct at it.
func conductor(t *testing.T, handler http.HandlerFunc) (flags []string, port string) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	host, port, err := net.SplitHostPort(strings.TrimPrefix(server.URL, "http://"))
	require.NoError(t, err)
	return []string{"--ip", host, "--port", port}, port
}

// execute runs conduct with args against no settings file and no address environment.
func execute(t *testing.T, doer client.Doer, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.IPEnv, "")
	t.Setenv(config.PortEnv, "")
	c := NewCLIClient(doer)
	var out bytes.Buffer
	c.RootCmd.SetOut(&out)
	c.RootCmd.SetErr(ioutil.Discard)
	c.RootCmd.SetArgs(append([]string{"--settings", filepath.Join(t.TempDir(), "none.toml")}, args...))
	err := c.Exec()
	return out.String(), err
}

// makeBundle packages a small tree named name and returns the archive path.
func makeBundle(t *testing.T, name string) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(filepath.Join(src, "bin"), 0755))
	require.NoError(t, ioutil.WriteFile(filepath.Join(src, "bin", name), []byte("#!/bin/sh\n"), 0755))
	result, err := shazar.Package(src, t.TempDir())
	require.NoError(t, err)
	return result.Path
}

func TestLoad(t *testing.T) {
	bundle := makeBundle(t, "visualizer")
	flags, port := conductor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "visualizer", r.FormValue("bundleName"))
		assert.Equal(t, "visualizer", r.FormValue("system"))
		assert.Equal(t, "web admin", r.FormValue("roles"))
		assert.Equal(t, "2", r.FormValue("nrOfCpus"))
		fmt.Fprint(w, `{"bundleId":"45e0c477d3e5ea92aa8d85c0d8f3e25c-c52e3f8d0c58d8aa29ae5e3d774c0e54"}`)
	})

	out, err := execute(t, nil, append(flags, "load", "--nr-of-cpus", "2", "--roles", "web", "--roles", "admin", bundle)...)
	require.NoError(t, err)
	p := " --port " + port
	require.Equal(t, "Bundle loaded.\n"+
		"Start bundle with: conduct run"+p+" 45e0c47-c52e3f8\n"+
		"Unload bundle with: conduct unload"+p+" 45e0c47-c52e3f8\n"+
		"Print ConductR info with: conduct info"+p+"\n", out)
}

func TestLoadZip(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "visualizer.zip")
	f, err := os.Create(bundle)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("visualizer/bin/visualizer")
	require.NoError(t, err)
	_, err = w.Write([]byte("#!/bin/sh\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	flags, _ := conductor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "visualizer", r.FormValue("bundleName"))
		_, header, err := r.FormFile("bundle")
		if assert.NoError(t, err) {
			assert.Equal(t, "visualizer.zip", header.Filename)
		}
		fmt.Fprint(w, `{"bundleId":"45e0c477d3e5ea92aa8d85c0d8f3e25c"}`)
	})
	out, err := execute(t, nil, append(flags, "load", bundle)...)
	require.NoError(t, err)
	require.Contains(t, out, "Bundle loaded.\n")
}

func TestLoadLongIDs(t *testing.T) {
	bundle := makeBundle(t, "visualizer")
	id := "45e0c477d3e5ea92aa8d85c0d8f3e25c-c52e3f8d0c58d8aa29ae5e3d774c0e54"
	flags, _ := conductor(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"bundleId":%q}`, id)
	})
	out, err := execute(t, nil, append(flags, "--long-ids", "load", "--name", "vis", bundle)...)
	require.NoError(t, err)
	require.Contains(t, out, "conduct run --port")
	require.Contains(t, out, " "+id+"\n")
}

func TestLoadBadBundle(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "visualizer.tgz")
	require.NoError(t, ioutil.WriteFile(garbage, []byte("not an archive"), 0644))
	mismatch := filepath.Join(dir, "visualizer-"+strings.Repeat("0", 64)+".tgz")
	require.NoError(t, ioutil.WriteFile(mismatch, []byte("not an archive"), 0644))

	for _, bundle := range []string{garbage, mismatch, filepath.Join(dir, "missing.tgz")} {
		// The doer is never called.
		_, err := execute(t, client.NewMockDoer(gomock.NewController(t)), "load", bundle)
		require.Error(t, err, bundle)
		require.True(t, strings.HasPrefix(err.Error(), "Problem with the bundle: "), err.Error())
		require.Equal(t, errs.BundleFailureExitCode, errs.ExitCodeOf(err))
	}
}

func TestRunStop(t *testing.T) {
	var scales []string
	flags, port := conductor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/bundles/45e0c47", r.URL.Path)
		scales = append(scales, r.URL.Query().Get("scale"))
		fmt.Fprint(w, `{"bundleId":"45e0c477d3e5ea92aa8d85c0d8f3e25c"}`)
	})
	p := " --port " + port

	out, err := execute(t, nil, append(flags, "run", "45e0c47")...)
	require.NoError(t, err)
	require.Equal(t, "Bundle run request sent.\n"+
		"Stop bundle with: conduct stop"+p+" 45e0c47\n"+
		"Print ConductR info with: conduct info"+p+"\n", out)

	_, err = execute(t, nil, append(flags, "run", "--scale", "3", "45e0c47")...)
	require.NoError(t, err)

	out, err = execute(t, nil, append(flags, "stop", "45e0c47")...)
	require.NoError(t, err)
	require.Equal(t, "Bundle stop request sent.\n"+
		"Unload bundle with: conduct unload"+p+" 45e0c47\n"+
		"Print ConductR info with: conduct info"+p+"\n", out)

	require.Equal(t, []string{"1", "3", "0"}, scales)
}

func TestUnload(t *testing.T) {
	flags, port := conductor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
	})
	out, err := execute(t, nil, append(flags, "unload", "45e0c47")...)
	require.NoError(t, err)
	require.Equal(t, "Bundle unload request sent.\nPrint ConductR info with: conduct info --port "+port+"\n", out)
}

func TestInfo(t *testing.T) {
	flags, _ := conductor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bundles", r.URL.Path)
		fmt.Fprint(w, bundlesJSON)
	})
	out, err := execute(t, nil, append(flags, "info")...)
	require.NoError(t, err)
	require.Equal(t, ""+
		"ID               NAME        #REP  #STR  #RUN  \n"+
		"45e0c47-c52e3f8  visualizer  1     0     1     \n"+
		"c52e3f8          cassandra   0     1     0     \n", out)
}

func TestInfoVerbose(t *testing.T) {
	flags, _ := conductor(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"bundleId":"x","attributes":{"bundleName":"n"},"bundleInstallations":[],"bundleExecutions":[]}]`)
	})
	out, err := execute(t, nil, append(flags, "--verbose", "info")...)
	require.NoError(t, err)
	require.Equal(t, `[
  {
    "bundleId": "x",
    "attributes": {
      "bundleName": "n"
    },
    "bundleInstallations": [],
    "bundleExecutions": []
  }
]
ID  NAME  #REP  #STR  #RUN  
x   n     0     0     0     
`, out)
}

func TestInfoEmpty(t *testing.T) {
	flags, _ := conductor(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	out, err := execute(t, nil, append(flags, "info")...)
	require.NoError(t, err)
	require.Equal(t, "ID  NAME  #REP  #STR  #RUN  \n", out)
}

func TestServices(t *testing.T) {
	flags, _ := conductor(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, bundlesJSON)
	})
	out, err := execute(t, nil, append(flags, "services")...)
	require.NoError(t, err)
	require.Equal(t, ""+
		"SERVICE                BUNDLE ID        BUNDLE NAME  STATUS    \n"+
		"http://:80/shared      45e0c47-c52e3f8  visualizer   Running   \n"+
		"http://:80/shared      c52e3f8          cassandra    Starting  \n"+
		"http://:80/visualizer  45e0c47-c52e3f8  visualizer   Running   \n"+
		"tcp://:9042/cassandra  c52e3f8          cassandra    Starting  \n"+
		"\n"+
		"WARNING: Multiple endpoints found for the following services: http://:80/shared\n"+
		"WARNING: Service resolution for these services is undefined.\n", out)
}

func TestServicesRepeatedWithinBundle(t *testing.T) {
	flags, _ := conductor(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"bundleId":"45e0c477d3e5ea92aa8d85c0d8f3e25c",
 "attributes":{"bundleName":"web"},
 "bundleConfig":{"endpoints":{
   "public":{"services":["http://:80/web"]},
   "internal":{"services":["http://:80/web"]}}},
 "bundleInstallations":[],
 "bundleExecutions":[{"host":"10.0.0.1","isStarted":true}]}]`)
	})
	out, err := execute(t, nil, append(flags, "services")...)
	require.NoError(t, err)
	require.Equal(t, ""+
		"SERVICE         BUNDLE ID  BUNDLE NAME  STATUS   \n"+
		"http://:80/web  45e0c47    web          Running  \n"+
		"http://:80/web  45e0c47    web          Running  \n"+
		"\n"+
		"WARNING: Multiple endpoints found for the following services: http://:80/web\n"+
		"WARNING: Service resolution for these services is undefined.\n", out)
}

func TestHTTPError(t *testing.T) {
	flags, _ := conductor(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such bundle", http.StatusNotFound)
	})
	out, err := execute(t, nil, append(flags, "unload", "abc")...)
	require.Error(t, err)
	require.Empty(t, out)
	require.Equal(t, "404 Not Found\nno such bundle", err.Error())
	require.Equal(t, errs.HTTPFailureExitCode, errs.ExitCodeOf(err))
}

func TestConnectionError(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	doer := client.NewMockDoer(mockCtrl)
	doer.EXPECT().Do(gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := execute(t, doer, "--ip", "10.0.0.9", "info")
	require.Error(t, err)
	require.Equal(t, "Unable to contact ConductR.\n"+
		"Reason: connection refused\n"+
		"Make sure it can be accessed at 10.0.0.9:9005.", err.Error())
	require.Equal(t, errs.ConnectionFailureExitCode, errs.ExitCodeOf(err))
}

func TestSettingsFile(t *testing.T) {
	flags, port := conductor(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"bundleId":"abc"}`)
	})
	settings := filepath.Join(t.TempDir(), config.SettingsFile)
	require.NoError(t, ioutil.WriteFile(settings, []byte("ip = \""+flags[1]+"\"\nport = "+port+"\n"), 0644))

	t.Setenv(config.IPEnv, "")
	t.Setenv(config.PortEnv, "")
	c := NewCLIClient(nil)
	var out bytes.Buffer
	c.RootCmd.SetOut(&out)
	c.RootCmd.SetArgs([]string{"--settings", settings, "unload", "abc"})
	require.NoError(t, c.Exec())
	require.Equal(t, "Bundle unload request sent.\nPrint ConductR info with: conduct info --port "+port+"\n", out.String())
}

func TestVersion(t *testing.T) {
	out, err := execute(t, nil, "version")
	require.NoError(t, err)
	require.Equal(t, common.Version+"\n", out)
}

func TestPackage(t *testing.T) {
	src := filepath.Join(t.TempDir(), "visualizer")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, ioutil.WriteFile(filepath.Join(src, "README"), []byte("test file data"), 0644))
	outDir := t.TempDir()

	out, err := execute(t, nil, "package", "--output-dir", outDir, src+"/")
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	require.Equal(t, outDir, filepath.Dir(path))
	require.NoError(t, shazar.Verify(path))
	base, _, ok := shazar.ParseName(path)
	require.True(t, ok)
	require.Equal(t, "visualizer", base)

	_, err = execute(t, nil, "package", "--output-dir", outDir, filepath.Join(src, "missing"))
	require.Error(t, err)
	require.Equal(t, errs.PackageFailureExitCode, errs.ExitCodeOf(err))
	require.True(t, shazar.IsNotFound(err))
}

func TestBadArgs(t *testing.T) {
	_, err := execute(t, nil, "run")
	require.Error(t, err)
	require.Equal(t, errs.GenericFailureExitCode, errs.ExitCodeOf(Exitable(err)))

	_, err = execute(t, nil, "--log_level", "loud", "version")
	require.Error(t, err)
}

func TestBundleName(t *testing.T) {
	tests := map[string]string{
		"/tmp/visualizer-v1-" + strings.Repeat("a", 64) + ".tgz": "visualizer-v1",
		"visualizer.tgz":     "visualizer",
		"dir/cassandra.zip":  "cassandra",
		"dir/cassandra":      "cassandra",
		"x.tar.gz":           "x",
		".tgz":               ".tgz",
	}
	for path, expected := range tests {
		require.Equal(t, expected, BundleName(path), path)
	}
}

func TestExitable(t *testing.T) {
	require.Nil(t, Exitable(nil))
	err := Exitable(&BundleError{Err: errors.New("corrupt")})
	require.Equal(t, "Problem with the bundle: corrupt", err.Error())
	require.Equal(t, errs.BundleFailureExitCode, errs.ExitCodeOf(err))
	require.Equal(t, err, Exitable(err))
	require.Equal(t, errs.GenericFailureExitCode, errs.ExitCodeOf(Exitable(errors.New("boom"))))
}
