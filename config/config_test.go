package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim/cache"
	"github.com/sarchlab/memsim/config"
	"github.com/sarchlab/memsim/mem"
	"github.com/sarchlab/memsim/tiered"
)

var _ = Describe("Config", func() {
	Describe("Defaults", func() {
		It("should describe the reference geometry", func() {
			c := config.DefaultConfig()
			Expect(c.Organization).To(Equal("direct"))
			Expect(c.CacheSize).To(Equal(uint32(524288)))
			Expect(c.LineSize).To(Equal(uint32(4)))
			Expect(c.AddressSize).To(Equal(uint32(24)))
			Expect(c.WritePolicy).To(Equal("write-through"))
		})

		It("should be valid", func() {
			Expect(config.DefaultConfig().Validate()).To(Succeed())
		})
	})

	Describe("Validation", func() {
		It("should reject an unknown organization", func() {
			c := config.DefaultConfig()
			c.Organization = "set-associative"
			Expect(c.Validate()).To(HaveOccurred())
		})

		It("should reject an invalid geometry", func() {
			c := config.DefaultConfig()
			c.LineSize = 3
			Expect(c.Validate()).To(MatchError(mem.ErrInvalidGeometry))
		})

		It("should reject an empty store", func() {
			c := config.DefaultConfig()
			c.StoreSize = 0
			Expect(c.Validate()).To(HaveOccurred())
		})

		It("should reject a store larger than the address space", func() {
			c := config.DefaultConfig()
			c.CacheSize = 64
			c.LineSize = 2
			c.AddressSize = 8
			c.StoreSize = 512
			Expect(c.Validate()).To(MatchError(mem.ErrInvalidGeometry))

			_, err := c.Build()
			Expect(err).To(MatchError(mem.ErrInvalidGeometry))
		})

		It("should accept a store that fills the address space", func() {
			c := config.DefaultConfig()
			c.CacheSize = 64
			c.LineSize = 2
			c.AddressSize = 8
			c.StoreSize = 256
			Expect(c.Validate()).To(Succeed())
		})

		It("should reject an unknown write policy", func() {
			c := config.DefaultConfig()
			c.WritePolicy = "write-back"
			Expect(c.Validate()).To(HaveOccurred())
		})
	})

	Describe("Clone", func() {
		It("should create independent copy", func() {
			original := config.DefaultConfig()
			clone := original.Clone()

			clone.LineSize = 8

			Expect(original.LineSize).To(Equal(uint32(4)))
			Expect(clone.LineSize).To(Equal(uint32(8)))
		})
	})

	Describe("Build", func() {
		It("should build a direct-mapped memory", func() {
			c := config.DefaultConfig()
			c.StoreSize = 1024

			m, err := c.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Cache()).To(BeAssignableToTypeOf(&cache.DirectMapped[uint32]{}))
			Expect(m.WritePolicy()).To(Equal(tiered.WriteThrough))

			Expect(m.Set(0x10, 5)).To(Succeed())
			data, ok, err := m.Get(0x10)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(data).To(Equal(uint32(5)))
		})

		It("should build an associative memory with the chosen policy", func() {
			c := config.DefaultConfig()
			c.Organization = "associative"
			c.CacheSize = 256
			c.StoreSize = 64
			c.WritePolicy = "write-invalidate"

			m, err := c.Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Cache()).To(BeAssignableToTypeOf(&cache.Associative[uint32]{}))
			Expect(m.WritePolicy()).To(Equal(tiered.WriteInvalidate))

			_, _, err = m.Get(64)
			Expect(err).To(MatchError(mem.ErrOutOfRange))
		})

		It("should refuse an invalid config", func() {
			c := config.DefaultConfig()
			c.AddressSize = 0

			_, err := c.Build()
			Expect(err).To(MatchError(mem.ErrInvalidGeometry))
		})
	})

	Describe("File Operations", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "memsim-config-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load config", func() {
			original := config.DefaultConfig()
			original.Organization = "associative"
			original.Seed = 99

			path := filepath.Join(tempDir, "memory.json")
			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(original))
		})

		It("should write geometry fields at the top level", func() {
			path := filepath.Join(tempDir, "memory.json")
			Expect(config.DefaultConfig().SaveConfig(path)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"cache_size": 524288`))
		})

		It("should keep defaults for missing fields", func() {
			path := filepath.Join(tempDir, "partial.json")
			err := os.WriteFile(path, []byte(`{"line_size": 8}`), 0644)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.LineSize).To(Equal(uint32(8)))
			Expect(loaded.CacheSize).To(Equal(uint32(524288)))
			Expect(loaded.Organization).To(Equal("direct"))
		})

		It("should return error for non-existent file", func() {
			_, err := config.LoadConfig("/nonexistent/path/memory.json")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			err := os.WriteFile(path, []byte("not valid json"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = config.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
