package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/taskflow/internal/config"
)

var _ = Describe("Configuration", func() {
	Describe("New", func() {
		It("should apply defaults", func() {
			cfg, err := config.New()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Engine.NumWorkers).To(Equal(3))
			Expect(cfg.LogLevel).To(Equal("info"))
			Expect(cfg.LogFormat).To(Equal("console"))
		})
	})

	Describe("Load", func() {
		It("should fall back to defaults without a file", func() {
			cfg, err := config.Load("")
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Engine.NumWorkers).To(Equal(3))
		})

		It("should override defaults from a file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "config.yaml")
			content := []byte("engine:\n  num_workers: 7\nlog_level: debug\n")
			Expect(os.WriteFile(path, content, 0o600)).To(Succeed())

			cfg, err := config.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Engine.NumWorkers).To(Equal(7))
			Expect(cfg.LogLevel).To(Equal("debug"))
			Expect(cfg.LogFormat).To(Equal("console"))
		})

		It("should fail on an unreadable file", func() {
			_, err := config.Load(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
			Expect(err).To(HaveOccurred())
		})
	})
})
