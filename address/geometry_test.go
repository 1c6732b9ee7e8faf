package address_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim/address"
	"github.com/sarchlab/memsim/mem"
)

var _ = Describe("Geometry", func() {
	Describe("Masks", func() {
		var g address.Geometry

		BeforeEach(func() {
			g = address.Geometry{
				CacheSize:   524288,
				LineSize:    4,
				AddressSize: 24,
			}
		})

		It("should compute the word mask", func() {
			Expect(g.WordMask()).To(Equal(uint32(0x3)))
		})

		It("should compute the line mask", func() {
			Expect(g.LineMask()).To(Equal(uint32(0xFFFC)))
		})

		It("should compute the tag mask", func() {
			Expect(g.TagMask()).To(Equal(uint32(0xFF0000)))
		})

		It("should keep the masks disjoint and covering the address space", func() {
			Expect(g.WordMask() & g.LineMask()).To(BeZero())
			Expect(g.LineMask() & g.TagMask()).To(BeZero())
			Expect(g.WordMask() | g.LineMask() | g.TagMask()).
				To(Equal(g.AddressMask()))
		})

		It("should give the associative tag every bit above the word", func() {
			Expect(g.AssociativeTagMask()).To(Equal(uint32(0xFFFFFC)))
		})
	})

	Describe("Field extraction", func() {
		It("should split an address into tag, line, and word", func() {
			g := address.Geometry{CacheSize: 524288, LineSize: 4, AddressSize: 24}
			addr := uint32(0xAB1237)

			Expect(g.Word(addr)).To(Equal(uint32(0x3)))
			Expect(g.Line(addr)).To(Equal(uint32(0x1237 >> 2)))
			Expect(g.Tag(addr)).To(Equal(uint32(0xAB)))
			Expect(g.AssociativeTag(addr)).To(Equal(uint32(0xAB1237 >> 2)))
		})

		It("should yield zero for an empty mask", func() {
			Expect(address.Field(0xFFFFFFFF, 0)).To(BeZero())
		})

		It("should handle single word lines", func() {
			g := address.Geometry{CacheSize: 16, LineSize: 1, AddressSize: 2}

			Expect(g.WordMask()).To(BeZero())
			Expect(g.LineMask()).To(Equal(uint32(0b01)))
			Expect(g.TagMask()).To(Equal(uint32(0b10)))
			Expect(g.Line(0b10)).To(BeZero())
			Expect(g.Tag(0b10)).To(Equal(uint32(1)))
		})

		It("should handle a full 32-bit address space", func() {
			g := address.Geometry{CacheSize: 64, LineSize: 2, AddressSize: 32}

			Expect(g.AddressMask()).To(Equal(^uint32(0)))
			Expect(g.Contains(0xFFFFFFFF)).To(BeTrue())
		})

		It("should tell whether an address fits", func() {
			g := address.Geometry{CacheSize: 16, LineSize: 1, AddressSize: 2}

			Expect(g.Contains(0b11)).To(BeTrue())
			Expect(g.Contains(0b100)).To(BeFalse())
		})
	})

	Describe("Validate", func() {
		DescribeTable("rejects invalid geometries",
			func(g address.Geometry, org address.Organization) {
				Expect(g.Validate(org)).To(MatchError(mem.ErrInvalidGeometry))
			},
			Entry("zero address size",
				address.Geometry{CacheSize: 16, LineSize: 1, AddressSize: 0},
				address.Direct),
			Entry("address size wider than 32 bits",
				address.Geometry{CacheSize: 16, LineSize: 1, AddressSize: 33},
				address.Direct),
			Entry("line size not a power of two",
				address.Geometry{CacheSize: 48, LineSize: 3, AddressSize: 8},
				address.Direct),
			Entry("zero line size",
				address.Geometry{CacheSize: 16, LineSize: 0, AddressSize: 8},
				address.Associative),
			Entry("cache size not a multiple of 8",
				address.Geometry{CacheSize: 12, LineSize: 1, AddressSize: 8},
				address.Direct),
			Entry("positions not a multiple of the line size",
				address.Geometry{CacheSize: 16, LineSize: 4, AddressSize: 8},
				address.Direct),
			Entry("line count not a power of two",
				address.Geometry{CacheSize: 48, LineSize: 2, AddressSize: 8},
				address.Direct),
			Entry("line and word fields wider than the address",
				address.Geometry{CacheSize: 524288, LineSize: 4, AddressSize: 8},
				address.Direct),
			Entry("word field wider than the address",
				address.Geometry{CacheSize: 64, LineSize: 8, AddressSize: 2},
				address.Associative),
		)

		It("should accept the reference geometries", func() {
			Expect(address.Geometry{CacheSize: 524288, LineSize: 4, AddressSize: 24}.
				Validate(address.Direct)).To(Succeed())
			Expect(address.Geometry{CacheSize: 16, LineSize: 1, AddressSize: 2}.
				Validate(address.Direct)).To(Succeed())
		})

		It("should accept any slot count for an associative cache", func() {
			g := address.Geometry{CacheSize: 48, LineSize: 4, AddressSize: 8}

			Expect(g.Validate(address.Associative)).To(Succeed())
			Expect(g.Validate(address.Direct)).NotTo(Succeed())
		})
	})

	Describe("Organization", func() {
		It("should round trip names", func() {
			for _, org := range []address.Organization{
				address.Direct, address.Associative,
			} {
				parsed, err := address.ParseOrganization(org.String())
				Expect(err).NotTo(HaveOccurred())
				Expect(parsed).To(Equal(org))
			}
		})

		It("should reject unknown names", func() {
			_, err := address.ParseOrganization("set-associative")
			Expect(err).To(HaveOccurred())
		})
	})
})
