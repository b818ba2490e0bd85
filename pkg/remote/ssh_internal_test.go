package remote

import (
	"crypto/ed25519"
	"crypto/rand"
	"net"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/ssh/agent"
)

var _ = Describe("agentAuth", func() {
	var (
		socket string
		served chan struct{}
	)

	BeforeEach(func() {
		_, key, err := ed25519.GenerateKey(rand.Reader)
		Expect(err).NotTo(HaveOccurred())
		keyring := agent.NewKeyring()
		Expect(keyring.Add(agent.AddedKey{PrivateKey: key})).To(Succeed())

		socket = filepath.Join(GinkgoT().TempDir(), "agent.sock")
		listener, err := net.Listen("unix", socket)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = listener.Close() })

		served = make(chan struct{}, 1)
		go func() {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			_ = agent.ServeAgent(keyring, conn)
			served <- struct{}{}
		}()
	})

	It("keeps the agent connection usable until closed", func() {
		auth := &agentAuth{socket: socket}

		signers, err := auth.signers()
		Expect(err).NotTo(HaveOccurred())
		Expect(signers).To(HaveLen(1))

		_, err = signers[0].Sign(rand.Reader, []byte("session"))
		Expect(err).NotTo(HaveOccurred())
		Consistently(served).ShouldNot(Receive())

		Expect(auth.Close()).To(Succeed())
		Eventually(served).Should(Receive())
	})

	It("closes nothing when the agent was never asked", func() {
		auth := &agentAuth{socket: socket}
		Expect(auth.Close()).To(Succeed())
	})

	It("reports an unreachable agent", func() {
		auth := &agentAuth{socket: filepath.Join(GinkgoT().TempDir(), "missing.sock")}
		_, err := auth.signers()
		Expect(err).To(HaveOccurred())
		Expect(auth.Close()).To(Succeed())
	})
})
