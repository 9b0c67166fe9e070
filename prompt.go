package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/nPaBwaYT/SDESBmp/cripta"
)

// prompter задает вопросы пользователю в интерактивном режиме
type prompter struct {
	in     *bufio.Reader
	out    io.Writer
	secret func() (string, error)
}

// newTerminalPrompter создает prompter поверх stdin/stdout; ключ вводится без эха
func newTerminalPrompter() *prompter {
	p := &prompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
	fd := int(os.Stdin.Fd())
	p.secret = func() (string, error) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return p
}

// isInteractive проверяет, подключен ли stdin к терминалу
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (p *prompter) line(question string) (string, error) {
	fmt.Fprint(p.out, question)
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (p *prompter) yesNo(question string) (bool, error) {
	answer, err := p.line(question + " [y/n]: ")
	if err != nil {
		return false, err
	}
	answer = strings.TrimSpace(answer)
	return answer != "" && (answer[0] == 'y' || answer[0] == 'Y'), nil
}

// collect запрашивает все параметры запуска, как это делала исходная утилита
func (p *prompter) collect(opts *options) error {
	encrypt, err := p.yesNo("Encrypt? (No means Decrypt)")
	if err != nil {
		return fmt.Errorf("input error: %w", err)
	}
	opts.direction = cripta.DirectionDecrypt
	if encrypt {
		opts.direction = cripta.DirectionEncrypt
	}

	const keyQuestion = "Enter 10-bit key as bits (e.g., 1010000010): "
	var keyBits string
	if p.secret != nil {
		fmt.Fprint(p.out, keyQuestion)
		keyBits, err = p.secret()
	} else {
		keyBits, err = p.line(keyQuestion)
	}
	if err != nil {
		return fmt.Errorf("key input error: %w", err)
	}
	if opts.key, err = cripta.ParseKey(keyBits); err != nil {
		return err
	}

	modeText, err := p.line("Mode (ECB/CBC/CTR): ")
	if err != nil {
		return fmt.Errorf("mode input error: %w", err)
	}
	if opts.mode, err = cripta.ParseCipherMode(modeText); err != nil {
		return err
	}

	if opts.mode.NeedsIV() {
		question := "Enter IV (8-bit, hex like 0xA3): "
		if opts.mode == cripta.CipherModeCTR {
			question = "Enter CTR nonce/start (8-bit, hex like 0x17): "
		}
		ivText, err := p.line(question)
		if err != nil {
			return fmt.Errorf("IV/nonce input error: %w", err)
		}
		if opts.iv, err = cripta.ParseIV(ivText); err != nil {
			return err
		}
		opts.ivSet = true
	}

	if opts.input, err = p.line("Input .bmp path: "); err != nil {
		return err
	}
	if opts.output, err = p.line("Output .bmp path: "); err != nil {
		return err
	}

	return nil
}
