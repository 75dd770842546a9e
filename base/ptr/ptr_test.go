package ptr

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/auctionhouse/domain"
)

type pointerSuite struct {
	suite.Suite
}

func (s *pointerSuite) TestPointer() {
	p1 := Bool(true)
	p2 := Uint8(7)
	p3 := Address("0xabc")

	s.Equal(*p1, true)
	s.Equal(*p2, uint8(7))
	s.Equal(*p3, domain.Address("0xabc"))
}

func (s *pointerSuite) TestDistinct() {
	v := domain.Address("0x1")
	p := Address(v)
	*p = "0x2"
	s.Equal(domain.Address("0x1"), v)
}

func TestPointerSuite(t *testing.T) {
	suite.Run(t, new(pointerSuite))
}
