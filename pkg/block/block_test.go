package block_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pringinacio/ivxv/pkg/block"
)

const name = "ivxv_backup_crontab"

var _ = Describe("Extract", func() {
	header, tail := block.Header(name), block.Tail(name)

	It("reports not found when neither marker exists", func() {
		e := block.Extract("MAILTO=root\n0 * * * * true\n", name)
		Expect(e.Status).To(Equal(block.NotFound))
		Expect(e.Err).NotTo(HaveOccurred())
	})

	It("returns the block from header through tail", func() {
		data := "MAILTO=root\n\n" + header + "\n0 1 * * * backup\n" + tail + "\n"
		e := block.Extract(data, name)
		Expect(e.Status).To(Equal(block.Found))
		Expect(e.Block).To(Equal(header + "\n0 1 * * * backup\n" + tail))
	})

	DescribeTable("reports malformed blocks",
		func(data string) {
			e := block.Extract(data, name)
			Expect(e.Status).To(Equal(block.Malformed))
			Expect(errors.Is(e.Err, block.ErrMalformed)).To(BeTrue())

			_, _, err := block.ExtractBlock(data, name)
			Expect(errors.Is(err, block.ErrMalformed)).To(BeTrue())
		},
		Entry("header only", "x\n"+header+"\ny\n"),
		Entry("tail only", "x\n"+tail+"\n"),
		Entry("tail before header", tail+"\n"+header+"\n"),
		Entry("duplicated header", header+"\n"+header+"\n"+tail+"\n"),
		Entry("duplicated tail", header+"\n"+tail+"\n"+tail+"\n"),
	)

	It("ignores blocks with other names", func() {
		data := block.Insert("", "ivxv_detail_stats_crontab", "*/15 * * * * stats")
		Expect(block.Extract(data, name).Status).To(Equal(block.NotFound))
	})

	It("returns the original data when the block is absent", func() {
		data := "  keep me  \n"
		got, found, err := block.ExtractBlock(data, name)
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
		Expect(got).To(Equal(data))
	})
})

var _ = Describe("Insert and Remove", func() {
	It("appends the block after two blank lines", func() {
		got := block.Insert("MAILTO=root\n\n  \n", name, "0 1 * * * backup")
		Expect(got).To(Equal("MAILTO=root\n\n\n" +
			block.Header(name) + "\n0 1 * * * backup\n" + block.Tail(name) + "\n"))
	})

	It("does not prepend blank lines to an empty file", func() {
		got := block.Insert("", name, "0 1 * * * backup")
		Expect(got).To(HavePrefix(block.Header(name)))
	})

	It("leaves data without the block unchanged", func() {
		data := "\n  MAILTO=root  \n\n"
		got, err := block.Remove(data, name)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(data))
	})

	It("preserves operator content on both sides of the block", func() {
		data := "# top\n0 0 * * * a\n\n" + block.Header(name) + "\nx\n" + block.Tail(name) + "\n\n# bottom\n"
		got, err := block.Remove(data, name)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal("# top\n0 0 * * * a\n# bottom\n"))
	})

	It("refuses to remove a malformed block", func() {
		_, err := block.Remove("x\n"+block.Header(name)+"\n", name)
		var merr *block.MalformedError
		Expect(errors.As(err, &merr)).To(BeTrue())
		Expect(merr.Marker).To(Equal(block.Tail(name)))
	})

	DescribeTable("round trips to the trimmed input",
		func(data, content string) {
			got, err := block.Remove(block.Insert(data, name, content), name)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(strings.TrimSpace(data)))
		},
		Entry("empty", "", "0 1 * * * backup"),
		Entry("plain", "MAILTO=root\n", "0 1 * * * backup"),
		Entry("trailing blanks", "a\nb\n\n\n\t \n", ""),
		Entry("leading blanks", "\n\n  a\n", "line1\nline2\n"),
		Entry("leading blanks before a variable", "\n\n  MAILTO=root\n", "c"),
	)

	DescribeTable("regeneration is a fixed point",
		func(data, content string) {
			first, err := block.Regenerate(data, name, content)
			Expect(err).NotTo(HaveOccurred())
			second, err := block.Regenerate(first, name, content)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		},
		Entry("no block yet", "MAILTO=root\n", "0 1 * * * backup"),
		Entry("stale block", "MAILTO=root\n"+block.Header(name)+"\nold\n"+block.Tail(name)+"\n# after\n", "new"),
		Entry("leading whitespace", "\n\n   MAILTO=root\n", "0 1 * * * backup"),
		Entry("empty file", "", "0 1 * * * backup"),
	)

	It("keeps a foreign block intact while regenerating another", func() {
		data := block.Insert("MAILTO=root", "ivxv_detail_stats_crontab", "*/15 * * * * stats")
		got, err := block.Regenerate(data, name, "0 1 * * * backup")
		Expect(err).NotTo(HaveOccurred())

		stats, found, err := block.ExtractBlock(got, "ivxv_detail_stats_crontab")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())
		Expect(stats).To(ContainSubstring("*/15 * * * * stats"))
	})
})

var _ = Describe("EditFile", func() {
	var path string

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "crontab")
	})

	It("regenerates the block in place", func() {
		Expect(os.WriteFile(path, []byte("MAILTO=root\n"), 0o600)).To(Succeed())
		Expect(block.EditFile(path, name, "0 1 * * * backup", 0)).To(Succeed())
		Expect(block.EditFile(path, name, "0 2 * * * backup", 0)).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(block.Insert("MAILTO=root", name, "0 2 * * * backup")))
	})

	It("leaves a malformed file untouched", func() {
		original := "MAILTO=root\n" + block.Tail(name) + "\n"
		Expect(os.WriteFile(path, []byte(original), 0o600)).To(Succeed())

		err := block.EditFile(path, name, "0 1 * * * backup", 0)
		Expect(errors.Is(err, block.ErrMalformed)).To(BeTrue())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(original))
	})

	It("removes the block and keeps a trailing newline", func() {
		Expect(os.WriteFile(path, []byte(block.Insert("MAILTO=root", name, "x")), 0o600)).To(Succeed())
		Expect(block.RemoveFromFile(path, name, 0)).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("MAILTO=root\n"))
	})

	It("fails on a missing file", func() {
		Expect(block.EditFile(path, name, "x", 0)).NotTo(Succeed())
	})
})
