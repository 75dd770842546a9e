package ctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/auctionhouse/base/log"
)

type testsuite struct {
	suite.Suite
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestWithValue() {
	bg := Background()
	c := WithValue(bg, "foo", "bar")
	ts.Equal("bar", c.Value("foo"))
}

func (ts *testsuite) TestWithValues() {
	bg := Background()
	c := WithValues(bg, map[string]interface{}{
		"a": "b",
		"c": "d",
	})
	ts.Equal("b", c.Value("a"))
	ts.Equal("d", c.Value("c"))
}

func (ts *testsuite) TestRequestID() {
	ts.Equal("", RequestID(Background()))
	c := WithValue(Background(), KeyRequestID, "req-1")
	ts.Equal("req-1", RequestID(c))
	ts.Equal("req-1", RequestID(WithFields(c, log.Fields{"x": 1})))
}

func (ts *testsuite) TestFrom() {
	c := WithValue(Background(), "foo", "bar")
	ts.Equal("bar", From(c).Value("foo"))
	ts.Nil(From(context.Background()).Value("foo"))
}

func (ts *testsuite) TestWithCancel() {
	c, cancel := WithCancel(Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		ts.Fail("context not cancelled")
	}
}

func (ts *testsuite) TestTimeout() {
	c, cancel := WithTimeout(Background(), 10*time.Millisecond)
	defer cancel()
	<-c.Done()
	ts.Equal(context.DeadlineExceeded, c.Err())
}
