package modem

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeModem answers AT commands from a script. Each command maps to a list
// of replies consumed in order; the last reply repeats. Unknown commands get
// ERROR; commands mapped to "" get no reply at all.
type fakeModem struct {
	conn net.Conn

	mu      sync.Mutex
	replies map[string][]string
	got     []string
}

func newFakeModem(t *testing.T, replies map[string][]string, opts ...Option) (*Driver, *fakeModem) {
	t.Helper()
	host, dev := net.Pipe()
	f := &fakeModem{conn: dev, replies: replies}
	go f.serve()
	t.Cleanup(func() {
		_ = host.Close()
		_ = dev.Close()
	})
	opts = append([]Option{WithTimeout(time.Second)}, opts...)
	return New(host, opts...), f
}

func (f *fakeModem) serve() {
	r := bufio.NewReader(f.conn)
	var line strings.Builder
	for {
		c, err := r.ReadByte()
		if err != nil {
			return
		}
		if c != '\r' && c != '\n' {
			line.WriteByte(c)
			continue
		}
		cmd := strings.TrimSpace(line.String())
		line.Reset()
		if cmd == "" {
			continue
		}
		reply := f.reply(cmd)
		if reply == "" {
			continue
		}
		if _, err := f.conn.Write([]byte(reply)); err != nil {
			return
		}
	}
}

func (f *fakeModem) reply(cmd string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, cmd)
	rs, ok := f.replies[cmd]
	if !ok || len(rs) == 0 {
		return "\r\nERROR\r\n"
	}
	r := rs[0]
	if len(rs) > 1 {
		f.replies[cmd] = rs[1:]
	}
	return r
}

func (f *fakeModem) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.got...)
}

func (f *fakeModem) count(cmd string) int {
	n := 0
	for _, c := range f.commands() {
		if c == cmd {
			n++
		}
	}
	return n
}

const okReply = "\r\nOK\r\n"

func infoReply(lines ...string) string {
	return "\r\n" + strings.Join(lines, "\r\n") + "\r\n" + okReply
}

func stubSleep(t *testing.T) {
	t.Helper()
	orig := sleepFn
	t.Cleanup(func() { sleepFn = orig })
	sleepFn = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
}

func TestProbe_SucceedsAfterRetries(t *testing.T) {
	stubSleep(t)
	d, f := newFakeModem(t, map[string][]string{
		"AT":        {"\r\nERROR\r\n", "\r\nERROR\r\n", okReply},
		"ATE0":      {okReply},
		"AT+CMEE=1": {okReply},
	})
	if err := d.Probe(context.Background()); err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if n := f.count("AT"); n != 3 {
		t.Fatalf("AT sent %d times want 3", n)
	}
}

func TestProbe_GivesUpAfterFive(t *testing.T) {
	stubSleep(t)
	d, f := newFakeModem(t, map[string][]string{})
	err := d.Probe(context.Background())
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("err=%v want ErrNoResponse", err)
	}
	if n := f.count("AT"); n != 5 {
		t.Fatalf("AT sent %d times want 5", n)
	}
}

func TestSIMStatus(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  SIMStatus
	}{
		{"Ready", infoReply("+CPIN: READY"), SIMReady},
		{"Locked", infoReply("+CPIN: SIM PIN"), SIMLocked},
		{"PUK", infoReply("+CPIN: SIM PUK"), SIMPUKRequired},
		{"NotInserted", "\r\n+CME ERROR: 10\r\n", SIMAbsent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, _ := newFakeModem(t, map[string][]string{"AT+CPIN?": {tc.reply}})
			got, err := d.SIMStatus(context.Background())
			if err != nil {
				t.Fatalf("SIMStatus: %v", err)
			}
			if got != tc.want {
				t.Fatalf("status=%s want %s", got, tc.want)
			}
		})
	}
}

func TestSIMUnlock(t *testing.T) {
	d, f := newFakeModem(t, map[string][]string{`AT+CPIN="1234"`: {okReply}})
	if err := d.SIMUnlock(context.Background(), "1234"); err != nil {
		t.Fatalf("SIMUnlock: %v", err)
	}
	if f.count(`AT+CPIN="1234"`) != 1 {
		t.Fatalf("commands=%v", f.commands())
	}
}

func TestIsNetworkConnected(t *testing.T) {
	d, _ := newFakeModem(t, map[string][]string{
		"AT+CEREG?": {infoReply("+CEREG: 0,2"), infoReply("+CEREG: 0,5")},
		"AT+CREG?":  {infoReply("+CREG: 0,0")},
	})
	ctx := context.Background()
	if d.IsNetworkConnected(ctx) {
		t.Fatalf("searching should not count as connected")
	}
	if !d.IsNetworkConnected(ctx) {
		t.Fatalf("roaming should count as connected")
	}
}

func TestWaitForNetwork_Timeout(t *testing.T) {
	d, _ := newFakeModem(t, map[string][]string{
		"AT+CEREG?": {infoReply("+CEREG: 0,2")},
		"AT+CREG?":  {infoReply("+CREG: 0,2")},
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := d.WaitForNetwork(ctx); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("err=%v want ErrNotRegistered", err)
	}
}

func TestSignalQuality(t *testing.T) {
	d, _ := newFakeModem(t, map[string][]string{"AT+CSQ": {infoReply("+CSQ: 23,99")}})
	q, err := d.SignalQuality(context.Background())
	if err != nil || q != 23 {
		t.Fatalf("q=%d err=%v", q, err)
	}
}

func TestGPRSConnectAndLocalIP(t *testing.T) {
	d, f := newFakeModem(t, map[string][]string{
		`AT+CGDCONT=1,"IP","internet"`: {okReply},
		`AT+CGAUTH=1,1,"pw","user"`:    {okReply},
		"AT+CGATT=1":                   {okReply},
		"AT+CGACT=1,1":                 {okReply},
		"AT+CGPADDR=1":                 {infoReply(`+CGPADDR: 1,"10.64.12.7"`)},
		"AT+CGACT=0,1":                 {okReply},
	})
	ctx := context.Background()
	if err := d.GPRSConnect(ctx, "internet", "user", "pw"); err != nil {
		t.Fatalf("GPRSConnect: %v", err)
	}
	ip, err := d.LocalIP(ctx)
	if err != nil || ip != "10.64.12.7" {
		t.Fatalf("ip=%q err=%v", ip, err)
	}
	if err := d.GPRSDisconnect(ctx); err != nil {
		t.Fatalf("GPRSDisconnect: %v", err)
	}
	want := []string{
		`AT+CGDCONT=1,"IP","internet"`,
		`AT+CGAUTH=1,1,"pw","user"`,
		"AT+CGATT=1",
		"AT+CGACT=1,1",
		"AT+CGPADDR=1",
		"AT+CGACT=0,1",
	}
	if got := f.commands(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("commands=%v", got)
	}
}

func TestGPRSConnect_SkipsAuthWithoutCredentials(t *testing.T) {
	d, f := newFakeModem(t, map[string][]string{
		`AT+CGDCONT=1,"IP","internet"`: {okReply},
		"AT+CGATT=1":                   {"\r\n+CME ERROR: 30\r\n"},
	})
	if err := d.GPRSConnect(context.Background(), "internet", "", ""); err == nil {
		t.Fatalf("expected error")
	}
	for _, c := range f.commands() {
		if strings.HasPrefix(c, "AT+CGAUTH") || c == "AT+CGACT=1,1" {
			t.Fatalf("unexpected command %q", c)
		}
	}
}

func TestParseRegStatus(t *testing.T) {
	if stat, ok := parseRegStatus([]string{"+CREG: 2,1,\"1A2B\",\"0C3D\",7"}, "+CREG"); !ok || stat != 1 {
		t.Fatalf("stat=%d ok=%v", stat, ok)
	}
	if _, ok := parseRegStatus([]string{"+CREG: 2"}, "+CREG"); ok {
		t.Fatalf("short reply should not parse")
	}
}
